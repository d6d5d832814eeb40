package svelte

import "github.com/ryangwn/svelte/internal"

// Selector answers "is this the active key?" in O(1) per selection change:
// switching keys dirties only the consumers registered for the old and new
// key, not every asker.
type Selector[K comparable] struct {
	s *internal.Selector
}

// NewSelector creates a selector, optionally with an initial active key.
// Without one, Is reports false for every key until Set is called.
func NewSelector[K comparable](initial ...K) *Selector[K] {
	key := internal.Uninitialized
	if len(initial) > 0 {
		key = initial[0]
	}
	return &Selector[K]{internal.GetRuntime().NewSelector(key)}
}

// Is reports whether key is the active key, registering the active consumer
// for exactly that key.
func (s *Selector[K]) Is(key K) bool {
	return s.s.Is(key)
}

// Set switches the active key.
func (s *Selector[K]) Set(key K) {
	s.s.Set(key)
}

// Key reads the active key through the graph, tracking it like any signal.
func (s *Selector[K]) Key() K {
	return as[K](s.s.Key())
}
