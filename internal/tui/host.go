package tui

import (
	"context"
	"fmt"

	"github.com/deploystackio/deploystack-sub002/internal/logger"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/tui/extension"
)

// Default extension points rendered by the dashboard.
const (
	PointHeader  = "dashboard.header"
	PointMain    = "dashboard.main"
	PointSidebar = "dashboard.sidebar"
	PointFooter  = "dashboard.footer"
)

// ViewDashboard is the initial view every frontend session starts on.
const ViewDashboard = "dashboard"

// Config configures the frontend host.
type Config struct {
	// Factories is the injected list of UI plugin factories.
	Factories []plugin.Factory
	// Options holds per-plugin enablement and configuration.
	Options plugin.OptionSet
	// Logger receives host log entries.
	Logger *logger.Logger
}

// Host is the frontend process the UI plugin runtime is loaded into. Unlike
// the backend it is single-phase: every capability exists before plugins
// initialize, and each plugin's extension contributions are purged as part of
// its cleanup.
type Host struct {
	log        *logger.Logger
	manager    *plugin.Manager
	caps       *Capabilities
	router     *Router
	store      *Store
	extensions *extension.Store
}

// NewHost wires the frontend services and lifecycle manager together.
func NewHost(cfg Config) *Host {
	extensions := extension.NewStore()
	caps := NewCapabilities()
	router := NewRouter(ViewDashboard)
	store := NewStore()

	caps.SetRouter(router)
	caps.SetStore(store)
	caps.SetExtensions(extensions)

	h := &Host{
		log:        cfg.Logger.WithComponent("tui"),
		caps:       caps,
		router:     router,
		store:      store,
		extensions: extensions,
	}
	h.manager = plugin.NewManager(plugin.Config{
		Factories:    cfg.Factories,
		Options:      cfg.Options,
		Capabilities: caps,
		OnCleanup:    extensions.RemoveByPlugin,
		Logger:       cfg.Logger,
	})
	return h
}

// Start runs the full startup sequence with the given application handle.
func (h *Host) Start(ctx context.Context, app App) error {
	if app == nil {
		return fmt.Errorf("application handle is required")
	}
	h.caps.SetApp(app)

	discovered, err := h.manager.Discover()
	if err != nil {
		return err
	}
	if err := h.manager.Load(discovered); err != nil {
		return err
	}
	if err := h.manager.Initialize(ctx); err != nil {
		return err
	}

	h.log.Info(fmt.Sprintf("frontend host started with %d plugins", len(h.manager.Plugins())))
	return nil
}

// Shutdown cleans up every plugin and purges its extension contributions.
func (h *Host) Shutdown(ctx context.Context) error {
	return h.manager.Shutdown(ctx)
}

// Manager exposes the lifecycle manager.
func (h *Host) Manager() *plugin.Manager {
	return h.manager
}

// Extensions exposes the extension point store for rendering.
func (h *Host) Extensions() *extension.Store {
	return h.extensions
}

// Router exposes the view router.
func (h *Host) Router() *Router {
	return h.router
}

// Store exposes the shared state store.
func (h *Host) Store() *Store {
	return h.store
}
