package svelte

import "github.com/ryangwn/svelte/internal"

// Error kinds raised by the runtime, delivered through panics that unwind to
// the nearest boundary (block handler, component catcher, or the caller that
// initiated the flush).
type (
	// EffectOutsideInitError: a lifecycle-bound effect constructor ran with
	// no component context and no parent effect.
	EffectOutsideInitError = internal.EffectOutsideInitError

	// MutationError: a runes-mode write happened while a derived was
	// evaluating.
	MutationError = internal.MutationError

	// UpdateDepthError: a flush kept producing new work past the bound.
	UpdateDepthError = internal.UpdateDepthError

	// TeardownError: a teardown closure panicked; the rest still ran.
	TeardownError = internal.TeardownError
)
