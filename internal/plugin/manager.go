package plugin

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/deploystackio/deploystack-sub002/internal/logger"
)

// Config configures a lifecycle Manager.
type Config struct {
	// Factories is the injected list of plugin factories resolved at startup.
	Factories []Factory
	// Options holds per-plugin enablement and configuration, keyed by ID.
	Options OptionSet
	// Capabilities is the bridge handed to every Initialize call. It must
	// validate before initialization proceeds.
	Capabilities Capabilities
	// OnCleanup, when set, runs after each plugin's cleanup during shutdown.
	// The frontend host uses it to purge the plugin's extension contributions.
	OnCleanup func(pluginID string)
	// Logger receives lifecycle log entries. Nil disables logging.
	Logger *logger.Logger
}

// Manager drives the plugin lifecycle: discovery, registration,
// initialization and shutdown, in strict sequence. All calls are expected on
// a single controlling goroutine; phases never overlap by design.
type Manager struct {
	registry    *Registry
	factories   []Factory
	options     OptionSet
	caps        Capabilities
	onCleanup   func(string)
	log         *logger.Logger
	state       State
	initialized []string
}

// NewManager creates a Manager in the Created state.
func NewManager(cfg Config) *Manager {
	return &Manager{
		registry:  NewRegistry(),
		factories: cfg.Factories,
		options:   cfg.Options,
		caps:      cfg.Capabilities,
		onCleanup: cfg.OnCleanup,
		log:       cfg.Logger.WithComponent("plugin-manager"),
		state:     StateCreated,
	}
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// Discover resolves every configured factory into a plugin instance. A factory
// that panics or produces an invalid descriptor is logged and skipped;
// discovery of the remaining factories continues. Discover must run before
// Load.
func (m *Manager) Discover() ([]Plugin, error) {
	if m.state != StateCreated {
		return nil, fmt.Errorf("cannot discover plugins in state '%s'", m.state)
	}
	m.state = StateDiscovering

	discovered := make([]Plugin, 0, len(m.factories))
	for i, factory := range m.factories {
		p, err := resolveFactory(factory)
		if err != nil {
			m.log.Error(err, fmt.Sprintf("skipping plugin factory %d", i))
			continue
		}
		if err := p.Descriptor().Validate(); err != nil {
			m.log.Error(err, fmt.Sprintf("skipping plugin factory %d", i))
			continue
		}
		m.log.WithPlugin(p.Descriptor().ID).Debug("discovered plugin")
		discovered = append(discovered, p)
	}
	return discovered, nil
}

// Load registers the discovered plugins. The first failure wraps as LoadError
// and aborts the batch: a half-loaded plugin set is a fatal configuration
// error, never silently tolerated.
func (m *Manager) Load(plugins []Plugin) error {
	if m.state != StateDiscovering {
		return fmt.Errorf("cannot load plugins in state '%s'", m.state)
	}

	for _, p := range plugins {
		desc := p.Descriptor()
		if err := m.registry.Register(p); err != nil {
			return &LoadError{ID: desc.ID, Err: err}
		}
		m.log.WithPlugin(desc.ID).Info(fmt.Sprintf("loaded %s", desc))
	}

	m.state = StateRegistered
	return nil
}

// Initialize calls Initialize on every enabled plugin in registration order,
// awaiting each call before starting the next. The call is idempotent: once
// the manager is initialized it returns nil immediately. The capability
// bridge must validate first; a failure names the missing dependency. One
// failing plugin aborts initialization of the remainder.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.state == StateInitialized {
		return nil
	}
	if m.state != StateRegistered {
		return fmt.Errorf("cannot initialize plugins in state '%s'", m.state)
	}

	if m.caps == nil {
		return fmt.Errorf("capability bridge is not configured")
	}
	if err := m.caps.Validate(); err != nil {
		return fmt.Errorf("capability bridge incomplete: %w", err)
	}

	m.state = StateInitializing

	for _, p := range m.registry.All() {
		desc := p.Descriptor()
		if !m.options.For(desc.ID).IsEnabled() {
			m.log.WithPlugin(desc.ID).Debug("plugin disabled, skipping initialization")
			continue
		}

		if err := p.Initialize(ctx, m.caps); err != nil {
			return &InitializeError{ID: desc.ID, Err: err}
		}
		m.initialized = append(m.initialized, desc.ID)
		m.log.WithPlugin(desc.ID).Info("plugin initialized")
	}

	m.state = StateInitialized
	return nil
}

// Shutdown calls Cleanup on every registered plugin that implements it,
// enabled or not, in registration order. Unlike initialization, shutdown is
// best-effort: a plugin's cleanup failure is logged and collected but never
// stops cleanup of the remaining plugins. After each plugin's cleanup the
// OnCleanup hook purges its contributions. The aggregated error is returned
// for reporting once every plugin has been processed.
func (m *Manager) Shutdown(ctx context.Context) error {
	switch m.state {
	case StateStopped:
		return nil
	case StateRegistered, StateInitializing, StateInitialized, StateShuttingDown:
		// Shutdown is permitted after a partial or failed initialization so
		// that already-initialized plugins still release their resources.
	default:
		return fmt.Errorf("cannot shut down plugins in state '%s'", m.state)
	}
	m.state = StateShuttingDown

	var errs *multierror.Error
	for _, p := range m.registry.All() {
		desc := p.Descriptor()
		if cleaner, ok := p.(Cleaner); ok {
			if err := safeCleanup(ctx, cleaner); err != nil {
				m.log.WithPlugin(desc.ID).Error(err, "plugin cleanup failed")
				errs = multierror.Append(errs, fmt.Errorf("cleanup plugin '%s': %w", desc.ID, err))
			}
		}
		if m.onCleanup != nil {
			m.onCleanup(desc.ID)
		}
	}

	m.state = StateStopped
	return errs.ErrorOrNil()
}

// Plugins returns every registered plugin in registration order.
func (m *Manager) Plugins() []Plugin {
	return m.registry.All()
}

// Plugin returns the registered plugin for the identifier.
func (m *Manager) Plugin(id string) (Plugin, error) {
	return m.registry.Lookup(id)
}

// InitializedPlugins returns the plugins whose Initialize completed, in
// registration order. The backend host iterates this set for the late
// database hand-off.
func (m *Manager) InitializedPlugins() []Plugin {
	out := make([]Plugin, 0, len(m.initialized))
	for _, id := range m.initialized {
		if p, ok := m.registry.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func resolveFactory(f Factory) (p Plugin, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plugin factory panicked: %v", r)
		}
	}()
	if f == nil {
		return nil, fmt.Errorf("plugin factory is nil")
	}
	p = f()
	if p == nil {
		return nil, fmt.Errorf("plugin factory returned nil")
	}
	return p, nil
}

func safeCleanup(ctx context.Context, c Cleaner) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cleanup panicked: %v", r)
		}
	}()
	return c.Cleanup(ctx)
}
