package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// checkSymmetry asserts the bidirectional edge invariant: every dependency
// edge has its consumer edge and vice versa.
func checkSymmetry(t *testing.T, nodes ...*Node) {
	t.Helper()

	for _, n := range nodes {
		for _, dep := range n.deps {
			assert.Contains(t, dep.consumers, n, "dep edge without consumer edge")
		}
		for _, c := range n.consumers {
			assert.Contains(t, c.deps, n, "consumer edge without dep edge")
		}
	}
}

func TestGraphEdges(t *testing.T) {
	t.Run("edges stay symmetric across executions", func(t *testing.T) {
		r := NewRuntime()

		a := r.NewSource(1, nil)
		b := r.NewSource(2, nil)
		which := r.NewSource(true, nil)

		e := r.NewEffect(EffectUser, func() any {
			if r.ReadNode(which).(bool) {
				r.ReadNode(a)
			} else {
				r.ReadNode(b)
			}
			return nil
		}, nil, true)

		checkSymmetry(t, a, b, which, e)
		assert.Equal(t, []*Node{which, a}, e.deps)

		r.WriteNode(which, false)
		checkSymmetry(t, a, b, which, e)
		assert.Equal(t, []*Node{which, b}, e.deps)
		assert.Empty(t, a.consumers)
	})

	t.Run("repeated reads dedupe", func(t *testing.T) {
		r := NewRuntime()

		a := r.NewSource(1, nil)
		e := r.NewEffect(EffectUser, func() any {
			r.ReadNode(a)
			r.ReadNode(a)
			r.ReadNode(a)
			return nil
		}, nil, true)

		assert.Equal(t, []*Node{a}, e.deps)
		assert.Len(t, a.consumers, 1)
	})

	t.Run("stable read order keeps the dependency list", func(t *testing.T) {
		r := NewRuntime()

		a := r.NewSource(1, nil)
		b := r.NewSource(2, nil)
		c := r.NewSource(3, nil)

		e := r.NewEffect(EffectUser, func() any {
			r.ReadNode(a)
			r.ReadNode(b)
			r.ReadNode(c)
			return nil
		}, nil, true)

		before := e.deps
		r.WriteNode(b, 20)
		assert.Equal(t, []*Node{a, b, c}, e.deps)
		checkSymmetry(t, a, b, c, e)
		_ = before
	})

	t.Run("consumer removal swaps and pops", func(t *testing.T) {
		r := NewRuntime()

		src := r.NewSource(1, nil)
		read := func() any { r.ReadNode(src); return nil }

		e1 := r.NewEffect(EffectUser, read, nil, true)
		e2 := r.NewEffect(EffectUser, read, nil, true)
		e3 := r.NewEffect(EffectUser, read, nil, true)
		assert.Len(t, src.consumers, 3)

		e1.Destroy()
		assert.Len(t, src.consumers, 2)
		assert.NotContains(t, src.consumers, e1)

		e3.Destroy()
		e2.Destroy()
		assert.Empty(t, src.consumers)
	})

	t.Run("destroy leaves no live children or edges", func(t *testing.T) {
		r := NewRuntime()

		src := r.NewSource(1, nil)
		var inner, derived *Node

		root := r.NewEffect(EffectUser, func() any {
			derived = r.NewDerived(func() any { return r.ReadNode(src) }, nil)
			r.ReadNode(derived)
			inner = r.NewEffect(EffectUser, func() any {
				r.ReadNode(src)
				return nil
			}, nil, false)
			return nil
		}, nil, true)

		assert.Len(t, src.consumers, 2) // derived and inner

		root.Destroy()
		assert.True(t, root.HasFlag(FlagDestroyed))
		assert.True(t, inner.HasFlag(FlagDestroyed))
		assert.True(t, derived.HasFlag(FlagDestroyed))
		assert.Empty(t, src.consumers)
	})

	t.Run("unowned derived unlinks when its last consumer dies", func(t *testing.T) {
		r := NewRuntime()

		src := r.NewSource(1, nil)
		d := r.NewDerived(func() any { return r.ReadNode(src) }, nil)

		e := r.NewEffect(EffectUser, func() any {
			r.ReadNode(d)
			return nil
		}, nil, true)

		assert.True(t, d.HasFlag(FlagUnowned))
		assert.Len(t, src.consumers, 1)

		e.Destroy()
		assert.Empty(t, src.consumers)
		assert.Empty(t, d.consumers)
	})

	t.Run("read clock survives wrapping", func(t *testing.T) {
		r := NewRuntime()
		r.tracker.clock = maxReadClock - 2

		a := r.NewSource(1, nil)
		e := r.NewEffect(EffectUser, func() any {
			r.ReadNode(a)
			r.ReadNode(a)
			return nil
		}, nil, true)

		r.WriteNode(a, 2)
		r.WriteNode(a, 3)

		assert.Equal(t, []*Node{a}, e.deps)
		assert.Len(t, a.consumers, 1)
	})
}

func TestStatusLattice(t *testing.T) {
	t.Run("status bits are mutually exclusive", func(t *testing.T) {
		n := &Node{}
		n.setStatus(FlagDirty)
		assert.Equal(t, FlagDirty, n.status())

		n.setStatus(FlagMaybeDirty)
		assert.Equal(t, FlagMaybeDirty, n.status())
		assert.False(t, n.HasFlag(FlagDirty))

		n.setStatus(FlagNone)
		assert.True(t, n.isClean())
	})

	t.Run("a write marks direct consumers dirty and the rest maybe-dirty", func(t *testing.T) {
		r := NewRuntime()

		src := r.NewSource(1, nil)
		d1 := r.NewDerived(func() any { return r.ReadNode(src) }, nil)
		d2 := r.NewDerived(func() any { return r.ReadNode(d1) }, nil)

		e := r.NewEffect(EffectUser, func() any {
			r.ReadNode(d2)
			return nil
		}, nil, true)

		// park the loop so the marking is observable before any flush
		r.SetLoop(parkedLoop{})
		r.WriteNode(src, 2)
		assert.Equal(t, FlagDirty, d1.status())
		assert.Equal(t, FlagMaybeDirty, d2.status())
		assert.Equal(t, FlagMaybeDirty, e.status())
	})

	t.Run("maybe-dirty settles clean without recompute", func(t *testing.T) {
		r := NewRuntime()

		src := r.NewSource(1, nil)
		floor := r.NewDerived(func() any { return r.ReadNode(src).(int) / 10 }, nil)

		runs := 0
		r.NewEffect(EffectUser, func() any {
			r.ReadNode(floor)
			runs++
			return nil
		}, nil, true)
		assert.Equal(t, 1, runs)

		r.WriteNode(src, 5) // floor recomputes to the same value
		assert.Equal(t, 1, runs)
	})
}

// parkedLoop swallows microtasks so marking can be observed before a flush.
type parkedLoop struct{}

func (parkedLoop) Microtask(func()) {}
func (parkedLoop) Defer(func())     {}
