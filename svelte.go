// Package svelte is the reactive runtime a component compiler's output calls
// into: a push/pull signal graph with read-time dependency capture, lazy
// invalidation and a microtask-driven effect flush. The runtime knows nothing
// of markup or the DOM; collaborators consume the block and context hooks it
// exposes.
package svelte

import (
	"github.com/google/go-cmp/cmp"

	"github.com/ryangwn/svelte/internal"
)

func as[T any](v any) T {
	if v == nil || v == internal.Uninitialized {
		var zero T
		return zero
	}

	return v.(T)
}

// Option configures a signal or derived at creation.
type Option[T any] func(*nodeOptions)

type nodeOptions struct {
	equals internal.EqualsFunc
}

// WithEquals installs a custom equality predicate; writes and recomputes
// that it accepts as equal do not propagate.
func WithEquals[T any](fn func(a, b T) bool) Option[T] {
	return func(o *nodeOptions) {
		o.equals = func(a, b any) bool { return fn(as[T](a), as[T](b)) }
	}
}

// WithDeepEquals compares values structurally with go-cmp instead of by
// identity.
func WithDeepEquals[T any](opts ...cmp.Option) Option[T] {
	return func(o *nodeOptions) {
		o.equals = func(a, b any) bool { return cmp.Equal(as[T](a), as[T](b), opts...) }
	}
}

func applyOptions[T any](opts []Option[T]) nodeOptions {
	var o nodeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type nodeRef interface {
	reactiveNode() *internal.Node
}

// Signal is a leaf node holding a user-set value.
type Signal[T any] struct {
	node *internal.Node
}

// NewSignal creates a source signal. The default equality is strict identity
// in runes components and the safe predicate in legacy ones.
func NewSignal[T any](initial T, opts ...Option[T]) *Signal[T] {
	o := applyOptions(opts)
	return &Signal[T]{
		internal.GetRuntime().NewSource(initial, o.equals),
	}
}

// Read returns the current value, registering the signal as a dependency of
// the active consumer.
func (s *Signal[T]) Read() T {
	return as[T](internal.GetRuntime().ReadNode(s.node))
}

// Peek returns the current value without registering a dependency.
func (s *Signal[T]) Peek() T {
	var v T
	internal.GetRuntime().Untrack(func() { v = s.Read() })
	return v
}

// Write sets a new value, dirtying consumers and scheduling their effects.
func (s *Signal[T]) Write(v T) T {
	internal.GetRuntime().WriteNode(s.node, v)
	return v
}

// WriteSync writes and flushes the effect queues before returning.
func (s *Signal[T]) WriteSync(v T) T {
	internal.GetRuntime().WriteNodeSync(s.node, v)
	return v
}

// Update writes the result of fn applied to the current value.
func (s *Signal[T]) Update(fn func(T) T) T {
	return s.Write(fn(s.Peek()))
}

func (s *Signal[T]) reactiveNode() *internal.Node { return s.node }

// Derived is a node whose value is a memoized function of other nodes,
// recomputed lazily when read while stale.
type Derived[T any] struct {
	node *internal.Node
}

// NewDerived creates a derived node. Created while another derived is
// computing it is owned by that derived; otherwise, under an active effect,
// it is owned by that effect. An owned derived is destroyed with its owner;
// anywhere else it is unowned.
func NewDerived[T any](fn func() T, opts ...Option[T]) *Derived[T] {
	o := applyOptions(opts)
	return &Derived[T]{
		internal.GetRuntime().NewDerived(func() any { return fn() }, o.equals),
	}
}

// Read returns the derived value, recomputing first if any dependency
// changed since the last read.
func (d *Derived[T]) Read() T {
	return as[T](internal.GetRuntime().ReadNode(d.node))
}

func (d *Derived[T]) reactiveNode() *internal.Node { return d.node }

// Untrack runs fn with dependency registration disabled and returns its
// result.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// Batch groups writes so their effects flush once, after the outermost batch
// completes.
func Batch(fn func()) {
	internal.GetRuntime().Batch(fn)
}

// FlushSync drains the effect queues synchronously, runs fn (if given),
// repeats until quiescent, then drains deferred tasks.
func FlushSync(fn ...func()) {
	var f func()
	if len(fn) > 0 {
		f = fn[0]
	}
	internal.GetRuntime().FlushSync(f)
}

// AwaitTick returns a channel closed once the pending flush, if any,
// completes.
func AwaitTick() <-chan struct{} {
	return internal.GetRuntime().AwaitTick()
}

// Defer hands a task to the host's future-turn primitive; FlushSync drains
// such tasks after the queues settle.
func Defer(fn func()) {
	internal.GetRuntime().Defer(fn)
}

// SetMaxUpdateDepth reconfigures the infinite-update-loop bound (default
// 100).
func SetMaxUpdateDepth(limit int) {
	internal.GetRuntime().SetMaxFlushDepth(limit)
}

// SetLoop swaps the host loop providing the microtask and deferred-task
// primitives for the current goroutine's runtime.
func SetLoop(loop Loop) {
	internal.GetRuntime().SetLoop(loop)
}

// Loop is the host scheduling surface the runtime needs.
type Loop = internal.Loop
