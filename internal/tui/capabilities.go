package tui

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/tui/extension"
)

// App is the handle UI plugins use to talk to the running application, e.g.
// to push refresh messages into the render loop. A bubbletea *tea.Program
// satisfies it.
type App interface {
	Send(msg tea.Msg)
}

// Capabilities is the frontend capability bridge handed to UI plugins. All
// four handles must be set before plugin initialization proceeds; setting one
// afterwards only affects plugins that re-query it.
type Capabilities struct {
	mu         sync.RWMutex
	app        App
	router     *Router
	store      *Store
	extensions *extension.Store
}

var _ plugin.Capabilities = (*Capabilities)(nil)

// NewCapabilities returns an empty bridge; the host fills it with setters
// before initializing plugins.
func NewCapabilities() *Capabilities {
	return &Capabilities{}
}

// Validate reports the first missing capability by name.
func (c *Capabilities) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.app == nil {
		return fmt.Errorf("application handle is not set")
	}
	if c.router == nil {
		return fmt.Errorf("view router is not set")
	}
	if c.store == nil {
		return fmt.Errorf("state store is not set")
	}
	if c.extensions == nil {
		return fmt.Errorf("extension point store is not set")
	}
	return nil
}

// SetApp installs the application handle.
func (c *Capabilities) SetApp(app App) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.app = app
}

// SetRouter installs the view router.
func (c *Capabilities) SetRouter(router *Router) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.router = router
}

// SetStore installs the shared state store.
func (c *Capabilities) SetStore(store *Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = store
}

// SetExtensions installs the extension point store.
func (c *Capabilities) SetExtensions(store *extension.Store) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.extensions = store
}

// App returns the application handle.
func (c *Capabilities) App() App {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.app
}

// Router returns the view router.
func (c *Capabilities) Router() *Router {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.router
}

// Store returns the shared state store.
func (c *Capabilities) Store() *Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// Extensions returns the extension point store.
func (c *Capabilities) Extensions() *extension.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.extensions
}
