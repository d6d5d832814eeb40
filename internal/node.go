package internal

type Flags int

const (
	FlagNone Flags = 0

	// role
	FlagDerived      Flags = 1 << 0
	FlagEffect       Flags = 1 << 1
	FlagPreEffect    Flags = 1 << 2
	FlagRenderEffect Flags = 1 << 3
	FlagSyncEffect   Flags = 1 << 4

	// status (mutually exclusive; a node with none of these is clean, and
	// dirty compares greater than maybe-dirty so upgrades are one check)
	FlagMaybeDirty Flags = 1 << 5
	FlagDirty      Flags = 1 << 6

	// ownership
	FlagManaged Flags = 1 << 7 // no parent will auto-own this node
	FlagUnowned Flags = 1 << 8 // created with no owning effect

	// lifecycle
	FlagInert     Flags = 1 << 9
	FlagDestroyed Flags = 1 << 10

	// node is sitting in a scheduler queue
	FlagQueued Flags = 1 << 11
	// unowned derived whose dependencies hold no consumer edge back to it
	FlagUnregistered Flags = 1 << 12
)

const flagStatusMask = FlagDirty | FlagMaybeDirty
const flagEffectMask = FlagEffect | FlagPreEffect | FlagRenderEffect | FlagSyncEffect

type uninitialized struct{}

// Uninitialized is the sentinel held by a node whose value has never been
// computed. It is distinct from every user value, nil included.
var Uninitialized any = uninitialized{}

// EqualsFunc reports whether a write or recompute left the value unchanged.
type EqualsFunc func(a, b any) bool

// Node is the unified record behind every reactive entity: sources, deriveds
// and the four effect flavors. The role bits in flags decide which fields are
// live; dispatch happens in a few central functions (read, schedule, execute)
// rather than across a type hierarchy.
type Node struct {
	flags Flags

	// sources and deriveds: the current value. effects: the teardown closure
	// returned by the last execution (a func(), or nil).
	value any

	// recompute function for deriveds and effects. Render effects close over
	// the owning block at construction time.
	fn func() any

	equals EqualsFunc

	// deps is ordered by first-read order of the most recent execution.
	// consumers is unordered; removal is swap-and-pop.
	deps      []*Node
	consumers []*Node

	// stamp of the execution that last read this node, for read deduplication
	readClock int

	// bumped every time a committed value actually changes
	version int

	// snapshot of dep versions at last execution, for unregistered deriveds
	depVersions []int

	block any
	ctx   *ComponentContext

	// nodes whose lifetime nests inside this one
	children []*Node

	// closures run on destruction, in registration order
	teardown []func()
}

func (n *Node) HasFlag(flag Flags) bool { return n.flags&flag != 0 }
func (n *Node) AddFlag(flag Flags)      { n.flags |= flag }
func (n *Node) RemoveFlag(flag Flags)   { n.flags &^= flag }

func (n *Node) setStatus(status Flags) {
	n.flags = (n.flags &^ flagStatusMask) | status
}

func (n *Node) status() Flags { return n.flags & flagStatusMask }

func (n *Node) isClean() bool   { return n.flags&flagStatusMask == 0 }
func (n *Node) isEffect() bool  { return n.flags&flagEffectMask != 0 }
func (n *Node) isDerived() bool { return n.flags&FlagDerived != 0 }

// Flags exposes the raw flag bits, for tests and embedder diagnostics.
func (n *Node) Flags() Flags { return n.flags }

// Value exposes the current value without tracking or validation.
func (n *Node) Value() any { return n.value }

// Block returns the UI block that was active when the node was created.
func (n *Node) Block() any { return n.block }

func (n *Node) addConsumer(c *Node) {
	n.consumers = append(n.consumers, c)
}

func (n *Node) removeConsumer(c *Node) {
	for i, existing := range n.consumers {
		if existing == c {
			last := len(n.consumers) - 1
			n.consumers[i] = n.consumers[last]
			n.consumers[last] = nil
			n.consumers = n.consumers[:last]
			return
		}
	}
}

// unlinkDeps removes this node from every dependency's consumer list. An
// unowned dependency left without consumers cascades its own unlinking so
// orphaned derived chains don't pin sources.
func (n *Node) unlinkDeps() {
	for _, dep := range n.deps {
		dep.removeConsumer(n)
		if dep.HasFlag(FlagUnowned) && len(dep.consumers) == 0 && !dep.HasFlag(FlagDestroyed) {
			// the orphan must recompute from scratch if it is ever read again
			dep.AddFlag(FlagUnregistered)
			dep.setStatus(FlagDirty)
			dep.unlinkDeps()
		}
	}
	n.deps = nil
}

func (n *Node) adopt(child *Node) {
	n.children = append(n.children, child)
}

// Destroy tears the node down: children first, then dependency unlinking,
// then the teardown closures in registration order. A panicking closure does
// not stop the ones after it; the first panic is re-raised wrapped.
func (n *Node) Destroy() {
	if n.HasFlag(FlagDestroyed) {
		return
	}
	n.AddFlag(FlagDestroyed)

	for _, child := range n.children {
		child.Destroy()
	}
	n.children = nil

	n.unlinkDeps()
	n.runTeardown()

	n.fn = nil
	n.consumers = nil
	n.ctx = nil
	n.block = nil
}

func (n *Node) runTeardown() {
	var first any

	trap := func(fn func()) {
		defer func() {
			if r := recover(); r != nil && first == nil {
				first = r
			}
		}()
		fn()
	}

	for _, fn := range n.teardown {
		trap(fn)
	}
	n.teardown = nil
	n.runCleanup(trap)

	if first != nil {
		panic(&TeardownError{First: first})
	}
}

// runCleanup runs the closure the last execution returned, if any.
func (n *Node) runCleanup(trap func(func())) {
	cleanup, ok := n.value.(func())
	if !ok || !n.isEffect() {
		return
	}
	n.value = nil
	if trap != nil {
		trap(cleanup)
	} else {
		cleanup()
	}
}

// PushTeardown registers a closure to run when the node is destroyed.
func (n *Node) PushTeardown(fn func()) {
	n.teardown = append(n.teardown, fn)
}
