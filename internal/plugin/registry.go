package plugin

// Registry stores plugin instances keyed by identifier, preserving
// registration order. All mutations happen on the lifecycle manager's
// goroutine during well-defined phases, so the registry carries no locking of
// its own.
type Registry struct {
	plugins map[string]Plugin
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
	}
}

// Register stores a plugin under its descriptor ID. A duplicate identifier
// fails with DuplicateError and leaves the registry untouched.
func (r *Registry) Register(p Plugin) error {
	desc := p.Descriptor()
	if err := desc.Validate(); err != nil {
		return err
	}
	if _, exists := r.plugins[desc.ID]; exists {
		return DuplicateError{ID: desc.ID}
	}
	r.plugins[desc.ID] = p
	r.order = append(r.order, desc.ID)
	return nil
}

// Get returns the plugin for the identifier. Absence is a normal query
// outcome, reported through the boolean rather than an error.
func (r *Registry) Get(id string) (Plugin, bool) {
	p, ok := r.plugins[id]
	return p, ok
}

// Lookup returns the plugin for the identifier, or NotFoundError when the
// identifier is unknown. Use it for operations that require existence.
func (r *Registry) Lookup(id string) (Plugin, error) {
	p, ok := r.plugins[id]
	if !ok {
		return nil, NotFoundError{ID: id}
	}
	return p, nil
}

// All returns a snapshot of every registered plugin in registration order.
func (r *Registry) All() []Plugin {
	out := make([]Plugin, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.plugins[id])
	}
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	return len(r.order)
}
