package internal

// Selector answers "is this the active key?" in O(1) per selection change.
// Consumers asking about a key land in that key's set; switching the active
// key dirties only the sets of the old and new key instead of every asker.
type Selector struct {
	r *Runtime

	key       *Node
	consumers map[any]map[*Node]struct{}
}

func (r *Runtime) NewSelector(initial any) *Selector {
	return &Selector{
		r:         r,
		key:       r.NewSource(initial, nil),
		consumers: make(map[any]map[*Node]struct{}),
	}
}

// Is reports whether key is the active key, registering the active consumer
// into the key's set. The registration is undone by the consumer's own
// teardown, which runs when the consumer is destroyed; re-runs keep it, so a
// key asked about in an earlier run stays registered.
func (s *Selector) Is(key any) bool {
	t := s.r.tracker
	if c := t.Consumer(); c != nil && t.tracking {
		set := s.consumers[key]
		if set == nil {
			set = make(map[*Node]struct{})
			s.consumers[key] = set
		}
		if _, ok := set[c]; !ok {
			set[c] = struct{}{}
			c.PushTeardown(func() {
				delete(set, c)
				if len(set) == 0 {
					delete(s.consumers, key)
				}
			})
		}
	}

	return identityEqual(s.key.value, key)
}

// Set switches the active key, dirtying only the consumers registered for
// the previous and the new key.
func (s *Selector) Set(key any) {
	old := s.key.value
	if identityEqual(old, key) {
		return
	}

	s.r.Batch(func() {
		s.invalidate(old)
		s.invalidate(key)
		// anyone reading the key itself is an ordinary consumer
		s.r.internalWrite(s.key, key, false)
	})
}

func (s *Selector) invalidate(key any) {
	for c := range s.consumers[key] {
		if c.HasFlag(FlagDestroyed) {
			continue
		}
		c.setStatus(FlagDirty)
		if c.isEffect() {
			s.r.scheduleEffect(c)
		} else {
			s.r.markConsumers(c, FlagMaybeDirty, false)
		}
	}
}

// Key reads the active key through the graph, tracking it like any source.
func (s *Selector) Key() any {
	return s.r.ReadNode(s.key)
}
