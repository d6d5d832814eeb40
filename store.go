package svelte

import "github.com/ryangwn/svelte/internal"

// Store is the external contract the bridge adapts. Subscribe must invoke
// the observer synchronously with the current value and return an
// unsubscriber.
type Store = internal.Store

// SettableStore is a store that also accepts writes.
type SettableStore = internal.SettableStore

// Stores holds one component's store subscriptions, keyed by the name the
// compiler assigned to each store expression.
type Stores struct {
	c *internal.StoreContainer
}

// NewStores creates an empty store container.
func NewStores() *Stores {
	return &Stores{internal.GetRuntime().NewStoreContainer()}
}

// BridgeStore reads the store's current value through the signal graph,
// subscribing on first read and resubscribing when a different store shows
// up under the same name. After teardown it returns the preserved last
// value.
func BridgeStore[T any](s *Stores, name string, store Store) T {
	return as[T](s.c.Bridge(name, store))
}

// BridgeStoreSet forwards a write to a settable store; the new value comes
// back through the subscription.
func BridgeStoreSet[T any](store Store, v T) T {
	if settable, ok := store.(SettableStore); ok {
		settable.Set(v)
	}
	return v
}

// UnsubscribeOnTeardown hooks the container's cleanup into the innermost
// executing effect, so component teardown drops every subscription.
func (s *Stores) UnsubscribeOnTeardown() {
	s.c.BindTeardown()
}

// Unsubscribe drops every subscription immediately. Last values stay
// readable.
func (s *Stores) Unsubscribe() {
	s.c.UnsubscribeAll()
}

// IsStore reports whether x satisfies the store contract.
func IsStore(x any) bool {
	_, ok := x.(Store)
	return ok
}
