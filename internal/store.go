package internal

// Store is the external contract the bridge adapts: Subscribe must invoke
// the observer synchronously with the current value and return an
// unsubscriber.
type Store interface {
	Subscribe(observer func(any)) (unsubscribe func())
}

// SettableStore is a store that also accepts writes.
type SettableStore interface {
	Store
	Set(value any)
}

type storeRecord struct {
	store       Store
	source      *Node
	lastValue   any
	unsubscribe func()
}

// StoreContainer holds one component's store subscriptions, keyed by the
// name the compiler assigned to each store expression.
type StoreContainer struct {
	r       *Runtime
	records map[string]*storeRecord
	closed  bool
}

func (r *Runtime) NewStoreContainer() *StoreContainer {
	return &StoreContainer{
		r:       r,
		records: make(map[string]*storeRecord),
	}
}

// Bridge reads the store's current value through the signal graph. The first
// read for a name subscribes; handing in a different store under the same
// name swaps the subscription. After the container closed, reads return the
// preserved last value instead of the sentinel.
func (c *StoreContainer) Bridge(name string, store Store) any {
	rec := c.records[name]

	if c.closed {
		if rec != nil {
			return rec.lastValue
		}
		return nil
	}

	if rec == nil {
		rec = &storeRecord{
			source: c.r.NewSource(Uninitialized, SafeEqual),
		}
		c.records[name] = rec
	}

	if !identityEqual(rec.store, store) {
		if rec.unsubscribe != nil {
			rec.unsubscribe()
		}
		rec.store = store
		// observer writes bypass mutation validation: a store may push
		// during a derivation and the bridge must not reject it
		rec.unsubscribe = store.Subscribe(func(v any) {
			rec.lastValue = v
			c.r.writeExternal(rec.source, v)
		})
	}

	return c.r.ReadNode(rec.source)
}

// UnsubscribeAll drops every subscription and destroys the backing signals.
// The last values stay readable.
func (c *StoreContainer) UnsubscribeAll() {
	if c.closed {
		return
	}
	c.closed = true

	for _, rec := range c.records {
		if rec.unsubscribe != nil {
			rec.unsubscribe()
			rec.unsubscribe = nil
		}
		rec.source.Destroy()
	}
}

// BindTeardown hooks the container's cleanup into the current effect, so
// component teardown unsubscribes everything.
func (c *StoreContainer) BindTeardown() {
	if e := c.r.activeEffect; e != nil {
		e.PushTeardown(c.UnsubscribeAll)
	}
}
