package internal

import "math"

// maxReadClock wraps the per-execution clock well before overflow; stamps
// from before the wrap can never collide with a live execution because a
// single execution holds one clock value.
const maxReadClock = math.MaxInt - 1

// Tracker holds the active-consumer state for one runtime. Exactly one node
// is the active consumer during an execution; nesting saves and restores
// through runConsumer so the stack unwinds cleanly on every exit path,
// panics included.
type Tracker struct {
	consumer *Node
	tracking bool

	// per-execution capture state
	clock   int // monotonically incremented per execution, wraps to 1
	active  int // the clock of the execution currently capturing
	scratch []*Node
	cursor  int

	// sources written during the current execution, to close the
	// write-then-read self-scheduling loop on an effect's first run
	written map[*Node]struct{}

	// non-nil while CaptureReads is recording
	captured map[*Node]struct{}

	// last node handed out by a read, for Expose
	exposing bool
	lastRead *Node
}

func NewTracker() *Tracker {
	return &Tracker{tracking: true}
}

func (t *Tracker) Consumer() *Node { return t.consumer }

func (t *Tracker) nextClock() int {
	t.clock++
	if t.clock >= maxReadClock {
		t.clock = 1
	}
	return t.clock
}

// runConsumer executes the node's producer with it as the active consumer,
// capturing reads into the scratch list. finish receives the scratch and
// cursor so the caller can swap the dependency list; it runs on every exit
// path, panics included, before the previous consumer is restored.
func (t *Tracker) runConsumer(node *Node, finish func(scratch []*Node, cursor int)) any {
	prevConsumer := t.consumer
	prevTracking := t.tracking
	prevActive := t.active
	prevScratch := t.scratch
	prevCursor := t.cursor
	prevWritten := t.written

	t.consumer = node
	t.tracking = true
	t.active = t.nextClock()
	t.scratch = nil
	t.cursor = 0
	t.written = nil

	defer func() {
		finish(t.scratch, t.cursor)

		t.consumer = prevConsumer
		t.tracking = prevTracking
		t.active = prevActive
		t.scratch = prevScratch
		t.cursor = prevCursor
		t.written = prevWritten
	}()

	return node.fn()
}

// capture records a read of dep by the active consumer. Reads that repeat
// the previous execution's order advance a cursor over the old dependency
// list instead of touching the scratch list; anything else appends once,
// deduplicated by the read clock.
func (t *Tracker) capture(dep *Node) {
	if t.captured != nil {
		t.captured[dep] = struct{}{}
	}
	if t.exposing {
		t.lastRead = dep
	}

	sub := t.consumer
	if sub == nil || !t.tracking {
		return
	}

	if t.cursor < len(sub.deps) && sub.deps[t.cursor] == dep && len(t.scratch) == 0 {
		dep.readClock = t.active
		t.cursor++
	} else if dep.readClock != t.active {
		dep.readClock = t.active
		t.scratch = append(t.scratch, dep)
	}
}

// wroteThisExecution reports whether the active effect wrote dep earlier in
// its current run. Such an effect has no consumer edge on dep yet, so the
// caller must schedule it by hand or the loop is lost.
func (t *Tracker) wroteThisExecution(dep *Node) bool {
	if t.written == nil || t.consumer == nil || !t.consumer.isEffect() {
		return false
	}
	_, ok := t.written[dep]
	return ok
}

func (t *Tracker) noteWrite(source *Node) {
	if t.consumer == nil || !t.consumer.isEffect() {
		return
	}
	if t.written == nil {
		t.written = make(map[*Node]struct{})
	}
	t.written[source] = struct{}{}
}

// RunUntracked runs fn with dependency registration disabled.
func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

// CaptureReads runs fn and returns every node it read, tracked or not.
func (t *Tracker) CaptureReads(fn func()) []*Node {
	prev := t.captured
	t.captured = make(map[*Node]struct{})
	defer func() { t.captured = prev }()

	fn()

	nodes := make([]*Node, 0, len(t.captured))
	for n := range t.captured {
		nodes = append(nodes, n)
	}
	return nodes
}

// Expose runs fn and additionally reports the node behind the last read, so
// callers that opt in can hold the signal itself rather than a snapshot.
func (t *Tracker) Expose(fn func()) *Node {
	prevExposing := t.exposing
	prevLast := t.lastRead
	t.exposing = true
	t.lastRead = nil

	defer func() {
		t.exposing = prevExposing
		t.lastRead = prevLast
	}()

	fn()
	return t.lastRead
}
