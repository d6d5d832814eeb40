package internal

import "fmt"

// EffectOutsideInitError is raised when a lifecycle-bound effect constructor
// is called with no component context and no parent effect to own it.
type EffectOutsideInitError struct{}

func (e *EffectOutsideInitError) Error() string {
	return "effect can only be created during component initialisation or inside another effect"
}

// MutationError is raised in runes mode when a source is written while a
// derived is evaluating.
type MutationError struct{}

func (e *MutationError) Error() string {
	return "cannot mutate state inside a derived expression"
}

// UpdateDepthError is raised when a flush keeps producing new work past the
// configured bound.
type UpdateDepthError struct {
	Limit int
}

func (e *UpdateDepthError) Error() string {
	return fmt.Sprintf("possible infinite update loop detected (flushed %d times without settling)", e.Limit)
}

// TeardownError wraps the first panic raised by a teardown closure. The
// remaining closures still run before this is re-raised.
type TeardownError struct {
	First any
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("panic during teardown: %v", e.First)
}
