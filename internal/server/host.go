package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/logger"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/settings"
)

// Config configures the backend host.
type Config struct {
	// Factories is the injected list of server plugin factories.
	Factories []plugin.Factory
	// Options holds per-plugin enablement and configuration.
	Options plugin.OptionSet
	// DatabasePath, when set, opens the embedded store during Start. Empty
	// boots the host without a database; one can be attached later through
	// the setup endpoint.
	DatabasePath string
	// Logger receives host log entries.
	Logger *logger.Logger
}

// Host is the backend process the plugin runtime is loaded into. It owns the
// lifecycle manager, the capability bridge and the HTTP surface.
type Host struct {
	log      *logger.Logger
	manager  *plugin.Manager
	caps     *Capabilities
	router   *Router
	settings *settings.Service
	options  plugin.OptionSet

	// databasePath is only consulted during Start.
	databasePath string

	mu sync.Mutex
	db *database.DB
}

// NewHost wires the backend services and lifecycle manager together. Nothing
// is discovered or initialized until Start.
func NewHost(cfg Config) *Host {
	log := cfg.Logger.WithComponent("server")
	router := NewRouter(cfg.Logger)
	svc := settings.NewService(cfg.Logger)
	caps := NewCapabilities(svc, router)

	h := &Host{
		log:      log,
		caps:     caps,
		router:   router,
		settings: svc,
		options:  cfg.Options,
	}
	h.manager = plugin.NewManager(plugin.Config{
		Factories:    cfg.Factories,
		Options:      cfg.Options,
		Capabilities: caps,
		Logger:       cfg.Logger,
	})
	h.databasePath = cfg.DatabasePath
	return h
}

// Start drives the startup sequence: discover, load, apply declared
// contributions, then initialize. Load and initialize failures are fatal and
// surface to the caller.
func (h *Host) Start(ctx context.Context) error {
	discovered, err := h.manager.Discover()
	if err != nil {
		return err
	}
	if err := h.manager.Load(discovered); err != nil {
		return err
	}

	if h.databasePath != "" {
		if err := h.openDatabase(h.databasePath); err != nil {
			return err
		}
	}

	if err := h.applyContributions(); err != nil {
		return err
	}
	if err := h.registerCoreRoutes(); err != nil {
		return err
	}

	if err := h.manager.Initialize(ctx); err != nil {
		return err
	}

	h.log.Info(fmt.Sprintf("backend host started with %d plugins", len(h.manager.Plugins())))
	return nil
}

// SetupDatabase attaches the embedded store after the host already booted
// without one. Declared tables are ensured, then each initialized plugin's
// AttachDatabase hook runs; a hook failure is fatal and reported, never
// silently retried.
func (h *Host) SetupDatabase(ctx context.Context, path string) error {
	h.mu.Lock()
	if h.db != nil {
		h.mu.Unlock()
		return fmt.Errorf("database is already configured at %s", h.db.Path())
	}
	h.mu.Unlock()

	if err := h.openDatabase(path); err != nil {
		return err
	}
	if err := h.ensurePluginTables(); err != nil {
		return err
	}

	for _, p := range h.manager.InitializedPlugins() {
		aware, ok := p.(DatabaseAware)
		if !ok {
			continue
		}
		id := p.Descriptor().ID
		if err := aware.AttachDatabase(ctx, h.Database()); err != nil {
			return fmt.Errorf("plugin '%s' failed database attachment: %w", id, err)
		}
		h.log.WithPlugin(id).Info("plugin attached to database")
	}
	return nil
}

// Shutdown tears the host down best-effort: every plugin's cleanup is
// attempted and the database closed regardless of individual failures.
func (h *Host) Shutdown(ctx context.Context) error {
	var errs *multierror.Error

	if err := h.manager.Shutdown(ctx); err != nil {
		errs = multierror.Append(errs, err)
	}

	h.mu.Lock()
	db := h.db
	h.db = nil
	h.mu.Unlock()
	if db != nil {
		if err := db.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	h.log.Info("backend host stopped")
	return errs.ErrorOrNil()
}

// Handler exposes the HTTP surface: core endpoints plus plugin routes.
func (h *Host) Handler() http.Handler {
	return h.router
}

// Manager exposes the lifecycle manager for host tooling.
func (h *Host) Manager() *plugin.Manager {
	return h.manager
}

// Settings exposes the global settings service.
func (h *Host) Settings() *settings.Service {
	return h.settings
}

// Database returns the current store, or nil before setup.
func (h *Host) Database() *database.DB {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db
}

func (h *Host) openDatabase(path string) error {
	db, err := database.Open(path)
	if err != nil {
		return err
	}
	if err := h.settings.AttachDatabase(db); err != nil {
		_ = db.Close()
		return err
	}

	h.mu.Lock()
	h.db = db
	h.mu.Unlock()
	h.caps.SetDatabase(db)

	h.log.WithFields(map[string]any{"path": path}).Info("database opened")
	return nil
}

// applyContributions queries each enabled plugin's declared capabilities:
// setting definitions always, table specs only once a database exists.
func (h *Host) applyContributions() error {
	for _, p := range h.manager.Plugins() {
		id := p.Descriptor().ID
		if !h.options.For(id).IsEnabled() {
			continue
		}
		if contributor, ok := p.(SettingsContributor); ok {
			for _, def := range contributor.Settings() {
				if err := h.settings.Define(def); err != nil {
					return fmt.Errorf("plugin '%s' settings contribution: %w", id, err)
				}
			}
		}
	}
	return h.ensurePluginTables()
}

func (h *Host) ensurePluginTables() error {
	db := h.Database()
	if db == nil {
		return nil
	}
	for _, p := range h.manager.Plugins() {
		id := p.Descriptor().ID
		if !h.options.For(id).IsEnabled() {
			continue
		}
		contributor, ok := p.(TableContributor)
		if !ok {
			continue
		}
		for _, spec := range contributor.Tables() {
			if err := db.EnsureTable(spec); err != nil {
				return fmt.Errorf("plugin '%s' table contribution: %w", id, err)
			}
		}
	}
	return nil
}

type pluginInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Author      string `json:"author,omitempty"`
	Enabled     bool   `json:"enabled"`
}

func (h *Host) registerCoreRoutes() error {
	if err := h.router.Handle(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"database": h.Database() != nil,
		})
	}); err != nil {
		return err
	}

	if err := h.router.Handle(http.MethodGet, "/api/plugins", func(w http.ResponseWriter, _ *http.Request) {
		infos := make([]pluginInfo, 0, len(h.manager.Plugins()))
		for _, p := range h.manager.Plugins() {
			desc := p.Descriptor()
			infos = append(infos, pluginInfo{
				ID:          desc.ID,
				Name:        desc.Name,
				Version:     desc.Version,
				Description: desc.Description,
				Author:      desc.Author,
				Enabled:     h.options.For(desc.ID).IsEnabled(),
			})
		}
		writeJSON(w, http.StatusOK, infos)
	}); err != nil {
		return err
	}

	return h.router.Handle(http.MethodPost, "/api/setup/database", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Path == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body requires a 'path'"})
			return
		}
		if err := h.SetupDatabase(r.Context(), body.Path); err != nil {
			h.log.Error(err, "database setup failed")
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "database configured"})
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
