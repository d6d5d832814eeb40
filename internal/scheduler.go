package internal

import "time"

type schedulerMode int

const (
	modeMicrotask schedulerMode = iota
	modeSync
)

// DefaultMaxFlushDepth bounds how many times one flush may loop before it is
// declared an infinite update loop.
const DefaultMaxFlushDepth = 100

// Scheduler owns the two effect queues and the flush loop. Pre and render
// effects share a queue drained to quiescence before the normal queue; sync
// effects never queue at all.
type Scheduler struct {
	runtime *Runtime

	preAndRender []*Node
	normal       []*Node
	deferred     []func()

	mode     schedulerMode
	armed    bool
	flushing bool

	// flush passes this cycle; reset when the queues settle
	depth    int
	maxDepth int

	// nesting of inline sync-effect executions
	syncDepth int

	tickWaiters []chan struct{}
}

func NewScheduler(r *Runtime) *Scheduler {
	return &Scheduler{
		runtime:  r,
		maxDepth: DefaultMaxFlushDepth,
	}
}

// scheduleEffect enqueues an effect into its phase queue, arming the host
// microtask on the first schedule after an empty state. Repeat schedules
// between drains coalesce through the queued flag. Sync effects run inline.
func (r *Runtime) scheduleEffect(e *Node) {
	if e.HasFlag(FlagDestroyed) || e.HasFlag(FlagInert) {
		return
	}

	if e.HasFlag(FlagSyncEffect) {
		s := r.scheduler
		s.syncDepth++
		if s.syncDepth > s.maxDepth {
			s.syncDepth = 0
			recordAbort()
			panic(&UpdateDepthError{Limit: s.maxDepth})
		}
		defer func() { s.syncDepth-- }()

		if r.checkDirtiness(e) {
			r.executeEffect(e)
		} else {
			e.setStatus(FlagNone)
		}
		return
	}

	if e.HasFlag(FlagQueued) {
		return
	}
	e.AddFlag(FlagQueued)

	s := r.scheduler
	if e.HasFlag(FlagPreEffect) || e.HasFlag(FlagRenderEffect) {
		s.preAndRender = append(s.preAndRender, e)
	} else {
		s.normal = append(s.normal, e)
	}

	if s.mode == modeMicrotask && !s.armed && !s.flushing && !r.batcher.IsBatching() {
		s.armed = true
		r.loop.Microtask(func() {
			s.armed = false
			s.flush()
		})
	}
}

// flush drains both queues in phase order until quiescence. Work enqueued by
// a drained effect joins the same flush; a flush that keeps finding new work
// past the depth bound aborts.
func (s *Scheduler) flush() {
	if s.flushing {
		return
	}
	s.flushing = true
	start := time.Now()
	effects := 0

	defer func() {
		s.flushing = false
		s.depth = 0
		recordFlush(time.Since(start), effects)

		waiters := s.tickWaiters
		s.tickWaiters = nil
		for _, ch := range waiters {
			close(ch)
		}
	}()

	for len(s.preAndRender) > 0 || len(s.normal) > 0 {
		s.depth++
		if s.depth > s.maxDepth {
			s.abort()
		}

		for len(s.preAndRender) > 0 {
			batch := s.preAndRender
			s.preAndRender = nil
			for _, e := range batch {
				s.runtime.runQueuedEffect(e)
				effects++
			}
		}

		batch := s.normal
		s.normal = nil
		for _, e := range batch {
			s.runtime.runQueuedEffect(e)
			effects++
		}
	}
}

// abort drops the pending queues and raises UpdateDepthError. Queued flags
// are cleared so the dropped effects can be scheduled again afterwards.
func (s *Scheduler) abort() {
	for _, e := range s.preAndRender {
		e.RemoveFlag(FlagQueued)
	}
	for _, e := range s.normal {
		e.RemoveFlag(FlagQueued)
	}
	s.preAndRender = nil
	s.normal = nil

	recordAbort()
	panic(&UpdateDepthError{Limit: s.maxDepth})
}

// runQueuedEffect is the drain-time gate: stale entries for destroyed or
// paused effects drop out here, and maybe-dirty effects validate their
// dependency set before running.
func (r *Runtime) runQueuedEffect(e *Node) {
	e.RemoveFlag(FlagQueued)

	if e.HasFlag(FlagDestroyed) || e.HasFlag(FlagInert) {
		return
	}

	if !r.checkDirtiness(e) {
		e.setStatus(FlagNone)
		return
	}

	r.executeEffect(e)

	// keep reactive statements single-shot per flush: once a pre effect
	// settles, its component's remaining pre and render work runs before
	// anything else
	if e.HasFlag(FlagPreEffect) && e.ctx != nil {
		r.scheduler.flushLocal(e.ctx)
	}
	if (e.HasFlag(FlagPreEffect) || e.HasFlag(FlagRenderEffect)) && e.ctx != nil {
		r.settleComponent(e.ctx)
	}
}

// flushLocal drains only the pre-and-render entries belonging to one
// component context.
func (s *Scheduler) flushLocal(ctx *ComponentContext) {
	for {
		idx := -1
		for i, e := range s.preAndRender {
			if e.ctx == ctx {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}

		e := s.preAndRender[idx]
		s.preAndRender = append(s.preAndRender[:idx], s.preAndRender[idx+1:]...)
		s.runtime.runQueuedEffect(e)
	}
}

func (s *Scheduler) hasLocalWork(ctx *ComponentContext) bool {
	for _, e := range s.preAndRender {
		if e.ctx == ctx {
			return true
		}
	}
	return false
}

// FlushSync switches the scheduler to synchronous mode, drains everything,
// runs fn, repeats until both queues are empty, then drains the deferred
// tasks and restores the previous mode.
func (r *Runtime) FlushSync(fn func()) {
	s := r.scheduler
	prevMode := s.mode
	s.mode = modeSync
	defer func() { s.mode = prevMode }()

	s.flush()
	if fn != nil {
		fn()
	}
	for len(s.preAndRender) > 0 || len(s.normal) > 0 {
		s.flush()
	}

	for len(s.deferred) > 0 {
		tasks := s.deferred
		s.deferred = nil
		for _, task := range tasks {
			task()
		}
		s.flush()
	}
}

// Defer hands a task to the host's future-turn primitive.
func (r *Runtime) Defer(fn func()) {
	r.loop.Defer(fn)
}

// AwaitTick returns a channel closed once the pending flush (if any)
// completes. With nothing scheduled it is closed already.
func (r *Runtime) AwaitTick() <-chan struct{} {
	s := r.scheduler
	ch := make(chan struct{})
	if !s.flushing && !s.armed && len(s.preAndRender) == 0 && len(s.normal) == 0 {
		close(ch)
		return ch
	}
	s.tickWaiters = append(s.tickWaiters, ch)
	return ch
}
