package svelte

import "github.com/ryangwn/svelte/internal"

// NodeRef is an opaque reference to a node in the graph, handed out by
// CaptureReads and Expose.
type NodeRef struct {
	node *internal.Node
}

// Valid reports whether the reference points at a node.
func (n NodeRef) Valid() bool { return n.node != nil }

func (n NodeRef) reactiveNode() *internal.Node { return n.node }

// IsNode reports whether x is a signal, derived, effect or node reference.
func IsNode(x any) bool {
	if ref, ok := x.(nodeRef); ok {
		return ref.reactiveNode() != nil
	}
	return false
}

// SafeEqual is the legacy-mode equality predicate: NaN equals NaN, and
// values identity can't settle always count as changed.
func SafeEqual(a, b any) bool {
	return internal.SafeEqual(a, b)
}

// CaptureReads runs fn and returns a reference to every node it read,
// tracked or not.
func CaptureReads(fn func()) []NodeRef {
	nodes := internal.GetRuntime().CaptureReads(fn)
	refs := make([]NodeRef, len(nodes))
	for i, n := range nodes {
		refs[i] = NodeRef{n}
	}
	return refs
}

// InvalidateInnerSignals re-sets every source fn reads to its own value with
// the equality check bypassed, so object-valued sources whose identity did
// not change still notify their consumers. Legacy-mode helper.
func InvalidateInnerSignals(fn func()) {
	internal.GetRuntime().InvalidateInnerSignals(fn)
}

// Expose runs fn and additionally reports the node behind its last read, so
// a caller that opts in can hold the signal itself rather than a snapshot.
func Expose[T any](fn func() T) (T, NodeRef) {
	var v T
	node := internal.GetRuntime().Expose(func() { v = fn() })
	return v, NodeRef{node}
}

// Numeric constrains the signal types the increment helpers work on.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// PreInc increments the signal and returns the new value (++x).
func PreInc[T Numeric](s *Signal[T]) T {
	return s.Write(s.Peek() + 1)
}

// PostInc increments the signal and returns the previous value (x++).
func PostInc[T Numeric](s *Signal[T]) T {
	old := s.Peek()
	s.Write(old + 1)
	return old
}

// PreDec decrements the signal and returns the new value (--x).
func PreDec[T Numeric](s *Signal[T]) T {
	return s.Write(s.Peek() - 1)
}

// PostDec decrements the signal and returns the previous value (x--).
func PostDec[T Numeric](s *Signal[T]) T {
	old := s.Peek()
	s.Write(old - 1)
	return old
}
