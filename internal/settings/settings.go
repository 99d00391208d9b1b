package settings

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/logger"
)

// TableName is the database table holding persisted setting values.
const TableName = "global_settings"

// ErrUndefined is returned when a key has no registered definition.
var ErrUndefined = errors.New("setting is not defined")

// Type constrains the values a setting accepts.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
)

// Definition declares a global setting. Host components and backend plugins
// contribute definitions; admins change the values at runtime.
type Definition struct {
	// Key identifies the setting, conventionally "<plugin>.<name>".
	Key string
	// Type constrains accepted values. Empty means string.
	Type Type
	// Default is returned until an explicit value is set.
	Default string
	// Description documents the setting for the admin UI.
	Description string
}

// Validate ensures the definition is well-formed.
func (d Definition) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("setting definition requires a key")
	}
	switch d.Type {
	case "", TypeString, TypeNumber, TypeBoolean:
	default:
		return fmt.Errorf("setting '%s' has unknown type '%s'", d.Key, d.Type)
	}
	if d.Default != "" {
		if err := checkValue(d.Type, d.Default); err != nil {
			return fmt.Errorf("setting '%s' default: %w", d.Key, err)
		}
	}
	return nil
}

// Service stores setting definitions and values. It operates definition-only
// before a database is attached; values set in that window are kept in memory
// and flushed once the store arrives.
type Service struct {
	mu      sync.RWMutex
	defs    map[string]Definition
	pending map[string]string
	db      *database.DB
	log     *logger.Logger
}

// NewService returns a Service with no definitions and no database.
func NewService(log *logger.Logger) *Service {
	return &Service{
		defs:    make(map[string]Definition),
		pending: make(map[string]string),
		log:     log.WithComponent("settings"),
	}
}

// Define registers a setting definition. Redefining an existing key fails.
func (s *Service) Define(def Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.defs[def.Key]; exists {
		return fmt.Errorf("setting '%s' is already defined", def.Key)
	}
	s.defs[def.Key] = def
	return nil
}

// Definitions returns every registered definition sorted by key.
func (s *Service) Definitions() []Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := make([]Definition, 0, len(s.defs))
	for _, def := range s.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Key < defs[j].Key })
	return defs
}

// Get returns the stored value for key, falling back to the definition
// default. Undefined keys yield ErrUndefined.
func (s *Service) Get(key string) (string, error) {
	s.mu.RLock()
	def, defined := s.defs[key]
	pendingValue, hasPending := s.pending[key]
	db := s.db
	s.mu.RUnlock()

	if !defined {
		return "", fmt.Errorf("'%s': %w", key, ErrUndefined)
	}
	if db != nil {
		value, err := db.Get(TableName, key)
		if err == nil {
			return string(value), nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return "", err
		}
	} else if hasPending {
		return pendingValue, nil
	}
	return def.Default, nil
}

// Set stores a value for a defined key, validating it against the declared
// type. Without a database the value is held in memory until one is attached.
func (s *Service) Set(key, value string) error {
	s.mu.Lock()
	def, defined := s.defs[key]
	if !defined {
		s.mu.Unlock()
		return fmt.Errorf("'%s': %w", key, ErrUndefined)
	}
	if err := checkValue(def.Type, value); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("setting '%s': %w", key, err)
	}
	db := s.db
	if db == nil {
		s.pending[key] = value
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	return db.Put(TableName, key, []byte(value))
}

// AttachDatabase hands the service its persistence layer. Values written
// before the database existed are flushed into it; flush failures surface to
// the caller since the setup sequence treats them as fatal.
func (s *Service) AttachDatabase(db *database.DB) error {
	if err := db.EnsureTable(database.TableSpec{
		Name:        TableName,
		Description: "Admin-configurable global settings.",
	}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range s.pending {
		if err := db.Put(TableName, key, []byte(value)); err != nil {
			return fmt.Errorf("flush pending setting '%s': %w", key, err)
		}
		s.log.WithFields(map[string]any{"key": key}).Debug("flushed pending setting value")
	}
	s.pending = make(map[string]string)
	s.db = db
	return nil
}

// HasDatabase reports whether values are persisted yet.
func (s *Service) HasDatabase() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

func checkValue(t Type, value string) error {
	switch t {
	case TypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value '%s' is not a number", value)
		}
	case TypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("value '%s' is not a boolean", value)
		}
	}
	return nil
}
