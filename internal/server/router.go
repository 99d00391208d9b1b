package server

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/deploystackio/deploystack-sub002/internal/logger"
)

// Routes is the route-registration capability exposed to backend plugins.
type Routes interface {
	// Handle registers a handler for the method and path pattern. Registering
	// the same method/pattern pair twice fails.
	Handle(method, pattern string, handler http.HandlerFunc) error
}

// Router implements Routes on top of the standard library mux. Plugins
// register during their Initialize call; the host mounts the router into its
// HTTP server afterwards.
type Router struct {
	mu         sync.Mutex
	mux        *http.ServeMux
	registered map[string]struct{}
	log        *logger.Logger
}

var _ Routes = (*Router)(nil)

// NewRouter returns an empty router.
func NewRouter(log *logger.Logger) *Router {
	return &Router{
		mux:        http.NewServeMux(),
		registered: make(map[string]struct{}),
		log:        log.WithComponent("router"),
	}
}

// Handle registers a handler under "METHOD pattern".
func (r *Router) Handle(method, pattern string, handler http.HandlerFunc) error {
	if method == "" || pattern == "" {
		return fmt.Errorf("route requires both a method and a pattern")
	}
	if handler == nil {
		return fmt.Errorf("route %s %s has a nil handler", method, pattern)
	}

	key := method + " " + pattern

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.registered[key]; exists {
		return fmt.Errorf("route '%s' is already registered", key)
	}
	r.registered[key] = struct{}{}
	r.mux.HandleFunc(key, handler)
	r.log.Debug(fmt.Sprintf("registered route %s", key))
	return nil
}

// Patterns returns every registered "METHOD pattern" key, sorted.
func (r *Router) Patterns() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.registered))
	for key := range r.registered {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ServeHTTP dispatches to the registered handlers.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
