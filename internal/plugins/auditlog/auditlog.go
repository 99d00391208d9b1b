package auditlogplugin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/server"
	"github.com/deploystackio/deploystack-sub002/internal/settings"
)

const (
	// TableName holds recorded audit events.
	TableName = "audit_events"

	// SettingRetentionDays bounds how long events are kept.
	SettingRetentionDays = "auditlog.retention_days"
)

// Event is a single audit record. Events recorded before a database exists
// are buffered in memory and flushed when one is attached.
type Event struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Action string    `json:"action"`
	Detail string    `json:"detail,omitempty"`
}

type auditlogPlugin struct {
	mu     sync.Mutex
	caps   *server.Capabilities
	buffer []Event
}

// New creates the audit log plugin.
func New() plugin.Plugin {
	return &auditlogPlugin{}
}

func init() {
	plugin.MustRegisterBuiltin(plugin.RealmServer, New)
}

var (
	_ plugin.Plugin              = (*auditlogPlugin)(nil)
	_ plugin.Cleaner             = (*auditlogPlugin)(nil)
	_ server.TableContributor    = (*auditlogPlugin)(nil)
	_ server.SettingsContributor = (*auditlogPlugin)(nil)
	_ server.DatabaseAware       = (*auditlogPlugin)(nil)
)

func (p *auditlogPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          "auditlog",
		Name:        "Audit Log",
		Version:     "1.0.0",
		Description: "Records deployment and configuration events for review.",
		Author:      "DeployStack",
	}
}

func (p *auditlogPlugin) Tables() []database.TableSpec {
	return []database.TableSpec{
		{Name: TableName, Description: "Recorded audit events."},
	}
}

func (p *auditlogPlugin) Settings() []settings.Definition {
	return []settings.Definition{
		{
			Key:         SettingRetentionDays,
			Type:        settings.TypeNumber,
			Default:     "30",
			Description: "Days an audit event is retained before purge.",
		},
	}
}

func (p *auditlogPlugin) Initialize(ctx context.Context, caps plugin.Capabilities) error {
	bridge, ok := caps.(*server.Capabilities)
	if !ok {
		return fmt.Errorf("auditlog requires the server capability bridge")
	}
	p.caps = bridge

	if err := bridge.Routes().Handle(http.MethodGet, "/api/audit/events", p.handleList); err != nil {
		return err
	}

	p.Record("plugin.initialized", "audit log ready")
	return nil
}

// AttachDatabase flushes events buffered while the host ran without storage.
func (p *auditlogPlugin) AttachDatabase(ctx context.Context, db *database.DB) error {
	p.mu.Lock()
	pending := p.buffer
	p.buffer = nil
	p.mu.Unlock()

	for _, event := range pending {
		if err := persist(db, event); err != nil {
			return fmt.Errorf("flush buffered audit event: %w", err)
		}
	}
	return nil
}

func (p *auditlogPlugin) Cleanup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffer = nil
	return nil
}

// Record stores an event, buffering it when no database is attached yet.
func (p *auditlogPlugin) Record(action, detail string) Event {
	event := Event{
		ID:     uuid.NewString(),
		Time:   time.Now().UTC(),
		Action: action,
		Detail: detail,
	}

	if db := p.caps.Database(); db != nil {
		if err := persist(db, event); err == nil {
			return event
		}
	}

	p.mu.Lock()
	p.buffer = append(p.buffer, event)
	p.mu.Unlock()
	return event
}

// Events returns all known events, stored and buffered, oldest first.
func (p *auditlogPlugin) Events() ([]Event, error) {
	var events []Event

	if db := p.caps.Database(); db != nil {
		rows, err := db.List(TableName)
		if err != nil {
			return nil, err
		}
		for id, raw := range rows {
			var event Event
			if err := json.Unmarshal(raw, &event); err != nil {
				return nil, fmt.Errorf("decode audit event %q: %w", id, err)
			}
			events = append(events, event)
		}
	}

	p.mu.Lock()
	events = append(events, p.buffer...)
	p.mu.Unlock()

	sort.Slice(events, func(i, j int) bool { return events[i].Time.Before(events[j].Time) })
	return events, nil
}

func persist(db *database.DB, event Event) error {
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return db.Put(TableName, event.ID, raw)
}

func (p *auditlogPlugin) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := p.Events()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(events)
}
