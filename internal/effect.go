package internal

type EffectKind int

const (
	EffectUser EffectKind = iota
	EffectPre
	EffectRender
	EffectSync
)

func (k EffectKind) flag() Flags {
	switch k {
	case EffectPre:
		return FlagPreEffect
	case EffectRender:
		return FlagRenderEffect
	case EffectSync:
		return FlagSyncEffect
	default:
		return FlagEffect
	}
}

// NewEffect creates an effect node of the given flavor. The producer returns
// the teardown closure for its execution, or nil.
//
// A non-managed effect needs an owner: either a parent effect (it becomes a
// child and dies with it) or a component context under initialisation.
// Managed effects are the embedder's problem and may be created anywhere.
func (r *Runtime) NewEffect(kind EffectKind, fn func() any, block any, managed bool) *Node {
	ctx := r.CurrentComponent()

	e := &Node{
		flags: kind.flag() | FlagDirty,
		value: Uninitialized,
		fn:    fn,
		ctx:   ctx,
		block: block,
	}
	if block == nil {
		e.block = r.currentBlock
	}

	if managed {
		e.AddFlag(FlagManaged)
	} else if r.activeEffect != nil {
		r.activeEffect.adopt(e)
	} else if ctx == nil {
		panic(&EffectOutsideInitError{})
	}

	// user effects created during component init wait for the mount; the
	// rest schedule right away (sync effects run inline in scheduleEffect)
	if kind == EffectUser && ctx != nil && !ctx.mounted && !managed && r.activeEffect == nil {
		ctx.deferred = append(ctx.deferred, e)
		return e
	}

	r.scheduleEffect(e)
	return e
}

// executeEffect runs a validated-dirty effect: previous teardown and owned
// children go first, then the producer runs with this effect as both the
// active consumer and the lexical owner of anything it creates.
func (r *Runtime) executeEffect(e *Node) {
	defer func() {
		if rec := recover(); rec != nil {
			r.handleError(e, rec)
		}
	}()

	// the previous run's cleanup closure and owned children go first; the
	// destroy-time teardown list stays until the effect itself dies
	e.runCleanup(nil)
	for _, child := range e.children {
		child.Destroy()
	}
	e.children = nil

	e.setStatus(FlagNone)
	if e.ctx != nil && (e.HasFlag(FlagPreEffect) || e.HasFlag(FlagRenderEffect)) {
		e.ctx.enterUpdate(r)
	}

	prevEffect := r.activeEffect
	prevCtx := r.componentCtx
	prevBlock := r.currentBlock
	r.activeEffect = e
	r.componentCtx = e.ctx
	r.currentBlock = e.block
	defer func() {
		r.activeEffect = prevEffect
		r.componentCtx = prevCtx
		r.currentBlock = prevBlock
	}()

	value := r.execute(e)
	if cleanup, ok := value.(func()); ok {
		e.value = cleanup
	} else {
		e.value = nil
	}
}

// handleError routes a producer panic to the nearest boundary: the owning
// block if it handles errors, otherwise the component's catchers walking up
// the parent chain, otherwise the caller that initiated the flush.
func (r *Runtime) handleError(e *Node, rec any) {
	if h, ok := e.block.(ErrorHandler); ok {
		h.HandleError(rec)
		return
	}

	for ctx := e.ctx; ctx != nil; ctx = ctx.parent {
		if len(ctx.catchers) > 0 {
			for _, catch := range ctx.catchers {
				catch(rec)
			}
			return
		}
	}

	panic(rec)
}

// ErrorHandler is implemented by blocks that want producer panics delivered
// to them instead of the flush caller.
type ErrorHandler interface {
	HandleError(any)
}

// SetInert pauses or resumes a node and everything nested inside it. A
// paused effect is never scheduled; resuming an effect that is not clean
// schedules it so missed work catches up.
func (r *Runtime) SetInert(n *Node, inert bool) {
	if n.HasFlag(FlagDestroyed) {
		return
	}

	if inert {
		n.AddFlag(FlagInert)
	} else {
		n.RemoveFlag(FlagInert)
		if n.isEffect() && !n.isClean() {
			r.scheduleEffect(n)
		}
	}

	for _, child := range n.children {
		r.SetInert(child, inert)
	}
}
