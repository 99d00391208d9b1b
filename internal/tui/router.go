package tui

import (
	"fmt"
	"sort"
	"sync"
)

// Router switches between named dashboard views. Plugins may register their
// own views during initialization and navigate to them later.
type Router struct {
	mu      sync.RWMutex
	views   map[string]struct{}
	current string
}

// NewRouter returns a router with the given initial view registered and
// active.
func NewRouter(initial string) *Router {
	return &Router{
		views:   map[string]struct{}{initial: {}},
		current: initial,
	}
}

// RegisterView makes a view name navigable. Registering an existing name is a
// no-op.
func (r *Router) RegisterView(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[name] = struct{}{}
}

// Navigate switches the active view. Unknown views fail.
func (r *Router) Navigate(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[name]; !ok {
		return fmt.Errorf("view '%s' is not registered", name)
	}
	r.current = name
	return nil
}

// Current returns the active view name.
func (r *Router) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Views returns all registered view names, sorted.
func (r *Router) Views() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
