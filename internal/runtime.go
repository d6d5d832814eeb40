package internal

// Runtime bundles the state of one reactivity graph: the dependency tracker,
// the effect scheduler and the component context stack. All of it is
// single-writer; the host loop and the goroutine-keyed registry keep every
// graph on one thread of control.
type Runtime struct {
	tracker   *Tracker
	scheduler *Scheduler
	batcher   *Batcher
	loop      Loop

	// innermost effect whose producer is executing or initialising; new
	// non-managed nodes become its children
	activeEffect *Node

	// UI block the embedder set for nodes created from here on
	currentBlock any

	// top of the component context stack
	componentCtx *ComponentContext
}

func NewRuntime() *Runtime {
	r := &Runtime{
		tracker: NewTracker(),
		batcher: NewBatcher(),
	}
	r.scheduler = NewScheduler(r)
	r.loop = inlineLoop{s: r.scheduler}
	return r
}

// SetLoop swaps the host loop providing the microtask and deferred-task
// primitives. The default loop runs microtasks inline, which makes every
// unbatched write flush before it returns.
func (r *Runtime) SetLoop(loop Loop) {
	r.loop = loop
}

// SetMaxFlushDepth reconfigures the re-entrancy bound (default 100).
func (r *Runtime) SetMaxFlushDepth(limit int) {
	r.scheduler.maxDepth = limit
}

// SetBlock installs the embedder's block pointer for subsequently created
// nodes and returns the previous one.
func (r *Runtime) SetBlock(block any) any {
	prev := r.currentBlock
	r.currentBlock = block
	return prev
}

// execute runs a node's producer with dependency capture and swaps in the
// dependency list the execution observed.
func (r *Runtime) execute(n *Node) any {
	return r.tracker.runConsumer(n, func(scratch []*Node, cursor int) {
		skipRegister := n.HasFlag(FlagUnowned) && r.activeEffect == nil
		swapDeps(n, scratch, cursor, skipRegister)

		if skipRegister {
			n.AddFlag(FlagUnregistered)
			n.snapshotDepVersions()
		} else {
			n.RemoveFlag(FlagUnregistered)
		}

		// a first-run effect that wrote a source it also depends on had no
		// consumer edge when the write happened; re-run it or the loop is
		// lost
		if n.isEffect() && r.tracker.written != nil {
			for _, dep := range n.deps {
				if _, ok := r.tracker.written[dep]; ok {
					n.setStatus(FlagDirty)
					r.scheduleEffect(n)
					break
				}
			}
		}
	})
}

// swapDeps reconciles the dependency list after an execution: the prefix the
// cursor skipped over is kept as-is, the rest of the previous list is
// unlinked, and the scratch list is spliced in at the cursor.
func swapDeps(n *Node, scratch []*Node, cursor int, skipRegister bool) {
	prev := n.deps

	if len(scratch) == 0 {
		if cursor == len(prev) {
			return
		}
		for _, dep := range prev[cursor:] {
			dep.removeConsumer(n)
		}
		n.deps = prev[:cursor]
		return
	}

	for _, dep := range prev[cursor:] {
		dep.removeConsumer(n)
	}

	deps := make([]*Node, 0, cursor+len(scratch))
	deps = append(deps, prev[:cursor]...)
	deps = append(deps, scratch...)
	n.deps = deps

	if !skipRegister {
		for _, dep := range scratch {
			dep.addConsumer(n)
		}
	}
}

// Untrack runs fn with dependency registration disabled.
func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

// CaptureReads runs fn and returns every node it read.
func (r *Runtime) CaptureReads(fn func()) []*Node {
	return r.tracker.CaptureReads(fn)
}

// Expose runs fn and returns the node behind its last read, or nil when fn
// read nothing.
func (r *Runtime) Expose(fn func()) *Node {
	return r.tracker.Expose(fn)
}

// ActiveConsumer returns the node currently capturing reads, if any.
func (r *Runtime) ActiveConsumer() *Node {
	return r.tracker.Consumer()
}

// ActiveEffect returns the innermost executing or initialising effect.
func (r *Runtime) ActiveEffect() *Node {
	return r.activeEffect
}

// CurrentBlock returns the embedder block installed for nodes created now.
func (r *Runtime) CurrentBlock() any {
	return r.currentBlock
}

// defaultEquals picks the equality policy the owning component implies:
// runes components compare by strict identity, legacy components use the
// safe predicate that always propagates for values identity can't settle,
// unless the component is marked immutable.
func (r *Runtime) defaultEquals(n *Node) EqualsFunc {
	ctx := n.ctx
	if ctx == nil || ctx.strict {
		return identityEqual
	}
	if ctx.immutable {
		return identityEqual
	}
	return SafeEqual
}
