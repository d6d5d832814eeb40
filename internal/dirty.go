package internal

// markConsumers walks the consumer graph after a value change. Direct
// consumers become dirty, transitive ones maybe-dirty; the walk stops at
// nodes that already carry a status so a diamond is visited once. Effects
// among them are scheduled, inert ones are left alone until un-paused.
func (r *Runtime) markConsumers(node *Node, status Flags, forceSchedule bool) {
	for _, c := range node.consumers {
		if c.HasFlag(FlagDestroyed) {
			continue
		}

		if c.isClean() {
			c.setStatus(status)
			if c.isEffect() {
				r.scheduleEffect(c)
			} else {
				r.markConsumers(c, FlagMaybeDirty, forceSchedule)
			}
		} else if forceSchedule {
			if c.status() < status {
				c.setStatus(status)
			}
			if c.isEffect() {
				r.scheduleEffect(c)
			} else {
				r.markConsumers(c, FlagMaybeDirty, forceSchedule)
			}
		} else if c.status() < status {
			// a maybe-dirty node learning of a certain change upgrades, but
			// its own consumers were already marked
			c.setStatus(status)
		}
	}
}

// checkDirtiness settles a maybe-dirty consumer before it runs. It walks the
// dependency list in order, validating maybe-dirty deriveds recursively and
// recomputing dirty ones; a dependency whose recompute changed its value
// marks this consumer dirty (the cascade), which short-circuits the walk.
// A clean verdict is recorded on the node so the walk happens once per flush.
func (r *Runtime) checkDirtiness(n *Node) bool {
	status := n.status()
	if status == FlagDirty {
		return true
	}

	if n.value == Uninitialized {
		return true
	}

	if status == FlagMaybeDirty {
		for _, dep := range n.deps {
			if dep.status() == FlagMaybeDirty && dep.isDerived() {
				if r.checkDirtiness(dep) {
					r.updateDerived(dep)
					if n.status() == FlagDirty {
						return true
					}
				} else {
					dep.setStatus(FlagNone)
				}
				continue
			}

			if dep.status() == FlagDirty || dep.value == Uninitialized {
				if dep.isDerived() {
					r.updateDerived(dep)
					if n.status() == FlagDirty {
						return true
					}
					continue
				}
				return true
			}
		}
		n.setStatus(FlagNone)
	}

	return false
}

// WriteNode writes v into a source. Nothing happens when equals holds. In
// runes mode a write during a derivation fails; legacy components permit it.
func (r *Runtime) WriteNode(n *Node, v any) any {
	consumer := r.tracker.Consumer()
	if consumer != nil && consumer.isDerived() && r.inStrictMode(consumer) {
		panic(&MutationError{})
	}

	r.internalWrite(n, v, false)
	return v
}

// WriteNodeSync writes and then drains the queues before returning.
func (r *Runtime) WriteNodeSync(n *Node, v any) any {
	r.WriteNode(n, v)
	r.FlushSync(nil)
	return v
}

// writeExternal applies an externally-pushed value: no mutation validation
// and no self-write bookkeeping, since the write is an outside event rather
// than the active consumer mutating its own state.
func (r *Runtime) writeExternal(n *Node, v any) {
	if n.HasFlag(FlagDestroyed) {
		return
	}

	if n.value != Uninitialized && n.equals != nil && n.equals(n.value, v) {
		return
	}

	n.value = v
	n.version++
	r.markConsumers(n, FlagDirty, false)
}

func (r *Runtime) internalWrite(n *Node, v any, force bool) {
	if n.HasFlag(FlagDestroyed) {
		return
	}

	if !force && n.value != Uninitialized && n.equals != nil && n.equals(n.value, v) {
		return
	}

	n.value = v
	n.version++
	r.tracker.noteWrite(n)
	r.markConsumers(n, FlagDirty, force)
}

func (r *Runtime) inStrictMode(n *Node) bool {
	if n.ctx != nil {
		return n.ctx.strict
	}
	if ctx := r.CurrentComponent(); ctx != nil {
		return ctx.strict
	}
	return true
}

// InvalidateInnerSignals is the legacy coarse propagation helper: every
// source read by fn is re-set to its own value with the equality check
// bypassed, so object-valued sources whose identity did not change still
// notify their consumers.
func (r *Runtime) InvalidateInnerSignals(fn func()) {
	var sources []*Node
	for _, n := range r.tracker.CaptureReads(fn) {
		if !n.isDerived() && !n.isEffect() {
			sources = append(sources, n)
		} else {
			// a derived stands for its sources here
			for _, dep := range n.deps {
				if !dep.isDerived() && !dep.isEffect() {
					sources = append(sources, dep)
				}
			}
		}
	}
	for _, s := range sources {
		r.internalWrite(s, s.value, true)
	}
}
