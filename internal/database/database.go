package database

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/util"
)

// ErrNotFound is returned when a key does not exist in a table.
var ErrNotFound = errors.New("key not found")

// ErrUnknownTable is returned when an operation targets a table that no
// plugin or host component has declared.
var ErrUnknownTable = errors.New("unknown table")

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// TableSpec declares a named keyspace within the store. Backend plugins
// contribute specs through their table contributions; the host applies them
// before plugin initialization, or when the database arrives after boot.
type TableSpec struct {
	// Name identifies the table. Lowercase letters, digits and underscores.
	Name string
	// Description documents what the table holds.
	Description string
}

// Validate ensures the spec is usable as a keyspace.
func (s TableSpec) Validate() error {
	if !tableNamePattern.MatchString(s.Name) {
		return fmt.Errorf("invalid table name '%s' (lowercase letters, digits and underscores only)", s.Name)
	}
	return nil
}

// DB is an embedded key-value store with named tables layered on top of
// leveldb key prefixes. The deployment host can boot without a database and
// attach one later; callers hold a *DB only once the store is open.
type DB struct {
	ldb  *leveldb.DB
	path string

	mu     sync.RWMutex
	tables map[string]TableSpec
}

// Open opens (creating if necessary) the store at path.
func Open(path string) (*DB, error) {
	ldb, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", path, err)
	}
	return &DB{
		ldb:    ldb,
		path:   path,
		tables: make(map[string]TableSpec),
	}, nil
}

// Close releases the underlying store.
func (d *DB) Close() error {
	return d.ldb.Close()
}

// Path returns the filesystem location of the store.
func (d *DB) Path() string {
	return d.path
}

// EnsureTable registers a table spec. Registering the same name twice is a
// no-op as long as the spec validates.
func (d *DB) EnsureTable(spec TableSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables[spec.Name] = spec
	return nil
}

// Tables returns every declared table spec sorted by name.
func (d *DB) Tables() []TableSpec {
	d.mu.RLock()
	defer d.mu.RUnlock()

	specs := make([]TableSpec, 0, len(d.tables))
	for _, spec := range d.tables {
		specs = append(specs, spec)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Put stores value under key in the named table.
func (d *DB) Put(table, key string, value []byte) error {
	prefix, err := d.tablePrefix(table)
	if err != nil {
		return err
	}
	return d.ldb.Put(append(prefix, key...), value, nil)
}

// Get fetches the value under key in the named table. A missing key yields
// ErrNotFound.
func (d *DB) Get(table, key string) ([]byte, error) {
	prefix, err := d.tablePrefix(table)
	if err != nil {
		return nil, err
	}
	value, err := d.ldb.Get(append(prefix, key...), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", table, key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Delete removes key from the named table. Deleting an absent key is not an
// error.
func (d *DB) Delete(table, key string) error {
	prefix, err := d.tablePrefix(table)
	if err != nil {
		return err
	}
	return d.ldb.Delete(append(prefix, key...), nil)
}

// List returns every key/value pair in the named table.
func (d *DB) List(table string) (map[string][]byte, error) {
	prefix, err := d.tablePrefix(table)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte)
	iter := d.ldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	for iter.Next() {
		key := string(iter.Key()[len(prefix):])
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		out[key] = value
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DB) tablePrefix(table string) ([]byte, error) {
	d.mu.RLock()
	_, ok := d.tables[table]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("table '%s': %w", table, ErrUnknownTable)
	}
	return []byte("t!" + table + "!"), nil
}
