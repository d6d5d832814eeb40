package svelte

import "github.com/ryangwn/svelte/internal"

// Effect is a handle on an effect node. The producer runs when the effect's
// dependencies change; a non-nil return value is the cleanup for that run,
// called before the next one and on destroy.
type Effect struct {
	node *internal.Node
}

func (e *Effect) reactiveNode() *internal.Node { return e.node }

// Destroy tears the effect down along with everything it owns.
func (e *Effect) Destroy() {
	e.node.Destroy()
}

// SetInert pauses or resumes the effect and its subtree.
func (e *Effect) SetInert(inert bool) {
	internal.GetRuntime().SetInert(e.node, inert)
}

// OnTeardown registers a closure to run when the effect is destroyed.
func (e *Effect) OnTeardown(fn func()) {
	e.node.PushTeardown(fn)
}

// NewEffect creates a user effect, run after render effects settle. It must
// be created during component initialisation or inside another effect.
func NewEffect(fn func() func()) *Effect {
	return newEffect(internal.EffectUser, fn, nil, false)
}

// NewPreEffect creates an effect that runs before the render effects of the
// same flush.
func NewPreEffect(fn func() func()) *Effect {
	return newEffect(internal.EffectPre, fn, nil, false)
}

// NewRenderEffect creates the effect flavor the UI collaborator mounts its
// block-building work on. The producer receives the owning block: the one
// given here, or the block active at creation.
func NewRenderEffect(fn func(block any) func(), block any) *Effect {
	b := block
	if b == nil {
		b = internal.GetRuntime().CurrentBlock()
	}
	return newEffect(internal.EffectRender, func() func() { return fn(b) }, b, false)
}

// NewSyncEffect creates an effect that runs inline with the triggering
// write, never queued.
func NewSyncEffect(fn func() func()) *Effect {
	return newEffect(internal.EffectSync, fn, nil, false)
}

// NewManagedEffect creates a user effect whose lifetime the caller manages;
// no component context is required and no parent effect adopts it.
func NewManagedEffect(fn func() func()) *Effect {
	return newEffect(internal.EffectUser, fn, nil, true)
}

// NewManagedRenderEffect is NewRenderEffect without the ownership rules.
func NewManagedRenderEffect(fn func(block any) func(), block any) *Effect {
	b := block
	if b == nil {
		b = internal.GetRuntime().CurrentBlock()
	}
	return newEffect(internal.EffectRender, func() func() { return fn(b) }, b, true)
}

func newEffect(kind internal.EffectKind, fn func() func(), block any, managed bool) *Effect {
	node := internal.GetRuntime().NewEffect(kind, func() any {
		if cleanup := fn(); cleanup != nil {
			return cleanup
		}
		return nil
	}, block, managed)

	return &Effect{node}
}

// OnTeardown registers a closure on the innermost executing effect, to run
// when that effect is destroyed.
func OnTeardown(fn func()) {
	if e := internal.GetRuntime().ActiveEffect(); e != nil {
		e.PushTeardown(fn)
	}
}

// MarkSubtreeInert pauses or resumes a whole effect subtree. Paused effects
// are not scheduled even when marked dirty; resuming a non-clean effect
// schedules it.
func MarkSubtreeInert(e *Effect, inert bool) {
	internal.GetRuntime().SetInert(e.node, inert)
}

// WithBlock installs the embedder's block pointer for nodes created inside
// fn. Producer panics are delivered to a block implementing
// internal.ErrorHandler instead of the flush caller.
func WithBlock(block any, fn func()) {
	r := internal.GetRuntime()
	prev := r.SetBlock(block)
	defer r.SetBlock(prev)

	fn()
}
