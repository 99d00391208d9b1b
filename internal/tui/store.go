package tui

import "sync"

// Store is the shared state store offered to UI plugins. Keys are namespaced
// by convention ("<plugin>.<name>"); values are opaque to the host.
type Store struct {
	mu      sync.RWMutex
	values  map[string]any
	nextSub int
	subs    map[int]func(key string)
}

// NewStore returns an empty state store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]any),
		subs:   make(map[int]func(key string)),
	}
}

// Set stores a value and notifies watchers of the key.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	watchers := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(key)
	}
}

// Get returns the value for key and whether it exists.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Watch registers a change observer. The returned function unsubscribes.
func (s *Store) Watch(fn func(key string)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
