package svelte

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffect(t *testing.T) {
	t.Run("runs on change with cleanup", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewManagedEffect(func() func() {
			v := count.Read()
			log = append(log, fmt.Sprintf("changed %d", v))
			return func() {
				log = append(log, "cleanup")
			}
		})

		count.Write(10)
		count.Write(20)

		assert.Equal(t, []string{
			"changed 0",
			"cleanup",
			"changed 10",
			"cleanup",
			"changed 20",
		}, log)
	})

	t.Run("writes cascade between effects", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		double := NewSignal(0)

		NewManagedEffect(func() func() {
			double.Write(count.Read() * 2)
			return nil
		})

		NewManagedEffect(func() func() {
			log = append(log, fmt.Sprintf("double %d", double.Read()))
			return nil
		})

		count.Write(10)

		assert.Equal(t, []string{"double 0", "double 20"}, log)
	})

	t.Run("phase order within one flush", func(t *testing.T) {
		log := []string{}

		Batch(func() {
			PushComponent(nil, true, false)

			NewPreEffect(func() func() {
				log = append(log, "pre")
				NewSyncEffect(func() func() {
					log = append(log, "sync")
					return nil
				})
				return nil
			})
			NewRenderEffect(func(block any) func() {
				log = append(log, "render")
				return nil
			}, nil)
			NewEffect(func() func() {
				log = append(log, "effect")
				return nil
			})

			PopComponent()
		})

		assert.Equal(t, []string{"pre", "sync", "render", "effect"}, log)
	})

	t.Run("schedules coalesce within a batch", func(t *testing.T) {
		runs := 0

		count := NewSignal(0)
		NewManagedEffect(func() func() {
			count.Read()
			runs++
			return nil
		})

		Batch(func() {
			count.Write(1)
			count.Write(2)
			count.Write(3)
		})

		assert.Equal(t, 2, runs) // initial run plus one for the batch
		assert.Equal(t, 3, count.Read())
	})

	t.Run("infinite update loop aborts", func(t *testing.T) {
		s := NewSignal(0)

		assert.PanicsWithError(t, (&UpdateDepthError{Limit: 100}).Error(), func() {
			NewManagedEffect(func() func() {
				s.Write(s.Read() + 1)
				return nil
			})
		})

		// the runtime recovers once the counter resets
		probe := NewSignal(0)
		runs := 0
		NewManagedEffect(func() func() {
			probe.Read()
			runs++
			return nil
		})
		probe.Write(1)
		assert.Equal(t, 2, runs)
	})

	t.Run("configurable update depth", func(t *testing.T) {
		SetMaxUpdateDepth(5)
		s := NewSignal(0)

		assert.PanicsWithError(t, (&UpdateDepthError{Limit: 5}).Error(), func() {
			NewManagedEffect(func() func() {
				s.Write(s.Read() + 1)
				return nil
			})
		})
	})

	t.Run("effect constructor needs an owner", func(t *testing.T) {
		assert.PanicsWithError(t, (&EffectOutsideInitError{}).Error(), func() {
			NewEffect(func() func() { return nil })
		})

		assert.NotPanics(t, func() {
			NewManagedEffect(func() func() { return nil })
		})
	})

	t.Run("nested effects die with their parent", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)

		NewManagedEffect(func() func() {
			count.Read()
			log = append(log, "outer")

			NewEffect(func() func() {
				log = append(log, "inner")
				return func() { log = append(log, "inner cleanup") }
			})
			return nil
		})

		count.Write(1)

		assert.Equal(t, []string{
			"outer",
			"inner",
			"inner cleanup",
			"outer",
			"inner",
		}, log)
	})

	t.Run("destroy stops future runs and tears down in order", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		e := NewManagedEffect(func() func() {
			count.Read()
			log = append(log, "run")
			return func() { log = append(log, "cleanup") }
		})
		e.OnTeardown(func() { log = append(log, "teardown a") })
		e.OnTeardown(func() { log = append(log, "teardown b") })

		e.Destroy()
		count.Write(1)

		assert.Equal(t, []string{"run", "teardown a", "teardown b", "cleanup"}, log)
	})

	t.Run("inert subtree is paused", func(t *testing.T) {
		runs := 0

		count := NewSignal(0)
		e := NewManagedEffect(func() func() {
			count.Read()
			runs++
			return nil
		})
		assert.Equal(t, 1, runs)

		e.SetInert(true)
		count.Write(1)
		count.Write(2)
		assert.Equal(t, 1, runs)

		// resuming a non-clean effect catches up
		e.SetInert(false)
		assert.Equal(t, 2, runs)
	})

	t.Run("sync effect runs inline with the write", func(t *testing.T) {
		log := []string{}

		count := NewSignal(0)
		NewManagedEffect(func() func() {
			NewSyncEffect(func() func() {
				log = append(log, fmt.Sprintf("sync %d", count.Read()))
				return nil
			})
			return nil
		})

		log = append(log, "before")
		count.Write(5)
		log = append(log, "after")

		assert.Equal(t, []string{"sync 0", "before", "sync 5", "after"}, log)
	})

	t.Run("producer panic reaches the component catcher", func(t *testing.T) {
		var caught any

		PushComponent(nil, true, false)
		OnComponentError(func(err any) { caught = err })

		count := NewSignal(0)
		NewRenderEffect(func(block any) func() {
			if count.Read() > 0 {
				panic("boom")
			}
			return nil
		}, nil)

		PopComponent()

		count.Write(1)
		assert.Equal(t, "boom", caught)
	})
}

func TestFlushSync(t *testing.T) {
	t.Run("drains a manual loop", func(t *testing.T) {
		loop := &manualLoop{}
		SetLoop(loop)

		log := []string{}
		count := NewSignal(0)
		NewManagedEffect(func() func() {
			log = append(log, fmt.Sprintf("run %d", count.Read()))
			return nil
		})

		// nothing ran yet: the microtask is parked in the loop
		assert.Empty(t, log)

		FlushSync()
		assert.Equal(t, []string{"run 0"}, log)

		count.Write(1)
		assert.Equal(t, []string{"run 0"}, log)
		FlushSync(func() { log = append(log, "inline") })
		assert.Equal(t, []string{"run 0", "run 1", "inline"}, log)
	})

	t.Run("drains deferred tasks last", func(t *testing.T) {
		log := []string{}

		Defer(func() { log = append(log, "deferred") })

		count := NewSignal(0)
		NewManagedEffect(func() func() {
			log = append(log, fmt.Sprintf("run %d", count.Read()))
			return nil
		})

		FlushSync()
		assert.Equal(t, []string{"run 0", "deferred"}, log)
	})

	t.Run("write sync flushes before returning", func(t *testing.T) {
		loop := &manualLoop{}
		SetLoop(loop)

		log := []string{}
		count := NewSignal(0)
		NewManagedEffect(func() func() {
			log = append(log, fmt.Sprintf("run %d", count.Read()))
			return nil
		})

		FlushSync()
		assert.Equal(t, []string{"run 0"}, log)

		count.WriteSync(7)
		assert.Equal(t, []string{"run 0", "run 7"}, log)
	})

	t.Run("await tick settles immediately when idle", func(t *testing.T) {
		select {
		case <-AwaitTick():
		default:
			t.Fatal("tick channel should be closed when nothing is scheduled")
		}
	})
}

// manualLoop parks microtasks instead of running them, standing in for a
// host event loop.
type manualLoop struct {
	tasks    []func()
	deferred []func()
}

func (l *manualLoop) Microtask(fn func()) { l.tasks = append(l.tasks, fn) }
func (l *manualLoop) Defer(fn func())     { l.deferred = append(l.deferred, fn) }
