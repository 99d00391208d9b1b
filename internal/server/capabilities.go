package server

import (
	"fmt"
	"sync"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/settings"
)

// Capabilities is the backend capability bridge handed to server plugins. The
// database handle may be nil at boot; the host tolerates starting without a
// configured database and retrofits one through the setup flow. Setting the
// database later only affects plugins that re-query it, it never replays
// completed Initialize calls.
type Capabilities struct {
	mu       sync.RWMutex
	db       *database.DB
	settings *settings.Service
	routes   Routes
}

var _ plugin.Capabilities = (*Capabilities)(nil)

// NewCapabilities builds the bridge from the host's services.
func NewCapabilities(svc *settings.Service, routes Routes) *Capabilities {
	return &Capabilities{settings: svc, routes: routes}
}

// Validate reports the first missing required capability by name. A nil
// database is not a validation failure.
func (c *Capabilities) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.settings == nil {
		return fmt.Errorf("settings service is not set")
	}
	if c.routes == nil {
		return fmt.Errorf("route registrar is not set")
	}
	return nil
}

// Database returns the current database handle, or nil when the host booted
// without one. Plugins that need late database access should implement
// DatabaseAware rather than poll.
func (c *Capabilities) Database() *database.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// SetDatabase installs the database handle once the store becomes available.
func (c *Capabilities) SetDatabase(db *database.DB) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.db = db
}

// Settings returns the global settings service.
func (c *Capabilities) Settings() *settings.Service {
	return c.settings
}

// Routes returns the route registrar plugins use to expose HTTP endpoints.
func (c *Capabilities) Routes() Routes {
	return c.routes
}
