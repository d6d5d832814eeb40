package internal

// Batcher groups writes so their effects flush once. Each nested batch
// increases the depth by 1; only the outermost completion flushes.
type Batcher struct {
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

func (b *Batcher) Batch(fn, onComplete func()) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth == 0 && onComplete != nil {
			onComplete()
		}
	}()

	fn()
}

func (r *Runtime) Batch(fn func()) {
	r.batcher.Batch(fn, func() {
		if r.scheduler.mode == modeMicrotask {
			r.scheduler.flush()
		}
	})
}
