package internal

// NewDerived creates a memoized node recomputed lazily from the nodes its
// producer reads. Created while another derived is computing it is owned by
// that derived; otherwise, under an active effect, it is owned by that
// effect; created anywhere else it is unowned and cleaned up eagerly once its
// last consumer goes away.
func (r *Runtime) NewDerived(fn func() any, equals EqualsFunc) *Node {
	n := &Node{
		flags:  FlagDerived,
		value:  Uninitialized,
		fn:     fn,
		equals: equals,
		ctx:    r.CurrentComponent(),
		block:  r.currentBlock,
	}
	if equals == nil {
		n.equals = r.defaultEquals(n)
	}

	// a derived born inside another derived's execution nests in it; inside
	// an effect it belongs to the effect; anywhere else it is unowned
	if c := r.tracker.Consumer(); c != nil && c.isDerived() {
		c.adopt(n)
	} else if r.activeEffect != nil {
		r.activeEffect.adopt(n)
	} else {
		n.AddFlag(FlagUnowned)
	}

	return n
}

// updateDerived re-executes the producer, swaps the dependency list, and
// propagates dirtiness to consumers only when the new value is unequal to
// the memoized one.
func (r *Runtime) updateDerived(d *Node) {
	if d.HasFlag(FlagDestroyed) {
		return
	}

	// deriveds created by the previous execution die with it
	for _, child := range d.children {
		child.Destroy()
	}
	d.children = nil

	old := d.value
	value := r.execute(d)
	d.setStatus(FlagNone)

	if old != Uninitialized && d.equals != nil && d.equals(old, value) {
		return
	}

	d.value = value
	d.version++
	r.markConsumers(d, FlagDirty, false)
}

// validateUnregistered reports whether an unowned derived with no consumer
// edges needs a recompute. Its dependencies can't push dirtiness at it, so
// staleness is detected by comparing dependency versions against the
// snapshot taken at the last execution.
func (r *Runtime) validateUnregistered(d *Node) bool {
	if d.status() == FlagDirty || d.value == Uninitialized || len(d.depVersions) != len(d.deps) {
		return true
	}

	for i, dep := range d.deps {
		if dep.isDerived() {
			if dep.HasFlag(FlagUnregistered) {
				if r.validateUnregistered(dep) {
					r.updateDerived(dep)
				}
			} else if !dep.isClean() {
				if r.checkDirtiness(dep) {
					r.updateDerived(dep)
				} else {
					dep.setStatus(FlagNone)
				}
			}
		}
		if dep.version != d.depVersions[i] {
			return true
		}
	}

	return false
}

// reconnect installs the missing consumer edges when an unregistered derived
// is read inside a tracked consumer, so writes reach that consumer from now
// on.
func (r *Runtime) reconnect(d *Node) {
	if !d.HasFlag(FlagUnregistered) {
		return
	}
	d.RemoveFlag(FlagUnregistered)

	for _, dep := range d.deps {
		dep.addConsumer(d)
		if dep.isDerived() {
			r.reconnect(dep)
		}
	}
}

func (d *Node) snapshotDepVersions() {
	if cap(d.depVersions) < len(d.deps) {
		d.depVersions = make([]int, len(d.deps))
	}
	d.depVersions = d.depVersions[:len(d.deps)]
	for i, dep := range d.deps {
		d.depVersions[i] = dep.version
	}
}
