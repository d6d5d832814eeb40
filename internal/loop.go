package internal

// Loop is the host scheduling surface the runtime needs: a microtask
// primitive (run before the host's next turn, after current synchronous
// code) and a deferred-task primitive (run in a future turn). Event-loop
// hosts (wasm) plug their own in via Runtime.SetLoop.
type Loop interface {
	Microtask(fn func())
	Defer(fn func())
}

// inlineLoop is the default host: microtasks run immediately, so a flush
// happens at the end of whatever write armed it, and deferred tasks pile up
// until a synchronous flush drains them.
type inlineLoop struct {
	s *Scheduler
}

func (l inlineLoop) Microtask(fn func()) { fn() }

func (l inlineLoop) Defer(fn func()) {
	l.s.deferred = append(l.s.deferred, fn)
}
