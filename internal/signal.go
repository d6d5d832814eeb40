package internal

// NewSource creates a leaf node holding a user-set value. A source has no
// owner: creating one under an active effect does not make it that effect's
// child, so the effect's re-runs and destruction leave it alive.
func (r *Runtime) NewSource(initial any, equals EqualsFunc) *Node {
	n := &Node{
		value:  initial,
		equals: equals,
		ctx:    r.CurrentComponent(),
		block:  r.currentBlock,
	}
	if equals == nil {
		n.equals = r.defaultEquals(n)
	}
	return n
}

// ReadNode returns the node's current value, registering it as a dependency
// of the active consumer and validating derived staleness first. This is the
// single entry point every read funnels through; role dispatch lives here.
func (r *Runtime) ReadNode(n *Node) any {
	if n.HasFlag(FlagDestroyed) {
		return Uninitialized
	}

	t := r.tracker
	t.capture(n)

	if t.wroteThisExecution(n) {
		// first run of an effect that wrote this source before reading it:
		// the dependency edge doesn't exist yet, so re-run by hand
		t.Consumer().setStatus(FlagDirty)
		r.scheduleEffect(t.Consumer())
	}

	if n.isDerived() {
		if n.HasFlag(FlagUnregistered) {
			if r.validateUnregistered(n) {
				r.updateDerived(n)
			}
			if t.Consumer() != nil && t.tracking {
				r.reconnect(n)
			}
		} else if !n.isClean() || n.value == Uninitialized {
			if r.checkDirtiness(n) {
				r.updateDerived(n)
			} else {
				n.setStatus(FlagNone)
			}
		}
	}

	return n.value
}
