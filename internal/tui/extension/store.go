package extension

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Component is a UI fragment a plugin contributes to an extension point. The
// dashboard renders fragments into the slot's available width.
type Component interface {
	Render(width int) string
}

// ComponentFunc adapts a plain function into a Component.
type ComponentFunc func(width int) string

// Render implements Component.
func (f ComponentFunc) Render(width int) string { return f(width) }

// Contribution is one plugin-supplied fragment attached to an extension
// point. Contributions are ordered by Order ascending; ties keep their
// registration order.
type Contribution struct {
	// ID identifies this contribution. Generated when not supplied.
	ID string
	// PluginID names the contributing plugin. Removal is keyed on it.
	PluginID string
	// Component renders the fragment.
	Component Component
	// Props carries opaque render inputs for the component.
	Props map[string]any
	// Order positions the contribution within its point. Default 0.
	Order int
}

// Options customizes a contribution at registration time.
type Options struct {
	ID    string
	Props map[string]any
	Order int
}

// Store maps extension point names to their ordered contribution lists. All
// mutations happen during lifecycle phases on the controlling goroutine; the
// lock only guards concurrent reads from the render loop.
type Store struct {
	mu          sync.RWMutex
	points      map[string][]Contribution
	subscribers map[int]func(point string)
	nextSub     int
}

// NewStore returns an empty extension point store.
func NewStore() *Store {
	return &Store{
		points:      make(map[string][]Contribution),
		subscribers: make(map[int]func(point string)),
	}
}

// Register appends a contribution to the named point and re-sorts the point's
// list by order ascending. The sort is stable: equal orders keep their
// registration order.
func (s *Store) Register(point string, component Component, pluginID string, opts Options) Contribution {
	contribution := Contribution{
		ID:        opts.ID,
		PluginID:  pluginID,
		Component: component,
		Props:     opts.Props,
		Order:     opts.Order,
	}
	if contribution.ID == "" {
		contribution.ID = uuid.NewString()
	}

	s.mu.Lock()
	list := append(s.points[point], contribution)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	s.points[point] = list
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	notify(subs, point)
	return contribution
}

// Get returns the current ordered contributions for the point. An unknown
// point yields an empty list, never an error. The returned slice is a copy.
func (s *Store) Get(point string) []Contribution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.points[point]
	out := make([]Contribution, len(list))
	copy(out, list)
	return out
}

// Points returns the names of all points holding at least one contribution,
// sorted.
func (s *Store) Points() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.points))
	for name, list := range s.points {
		if len(list) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RemoveByPlugin removes every contribution the plugin made, across all
// points, in a single pass. Other plugins' contributions keep their relative
// order.
func (s *Store) RemoveByPlugin(pluginID string) {
	s.mu.Lock()
	var touched []string
	for point, list := range s.points {
		kept := list[:0:0]
		for _, c := range list {
			if c.PluginID != pluginID {
				kept = append(kept, c)
			}
		}
		if len(kept) != len(list) {
			touched = append(touched, point)
			if len(kept) == 0 {
				delete(s.points, point)
			} else {
				s.points[point] = kept
			}
		}
	}
	subs := s.snapshotSubscribers()
	s.mu.Unlock()

	for _, point := range touched {
		notify(subs, point)
	}
}

// Subscribe registers an observer invoked whenever a point's contribution
// list changes. The returned function unsubscribes.
func (s *Store) Subscribe(fn func(point string)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotSubscribers() []func(point string) {
	subs := make([]func(point string), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(point string), point string) {
	for _, fn := range subs {
		fn(point)
	}
}
