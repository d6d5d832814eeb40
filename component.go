package svelte

import (
	"errors"

	"github.com/ryangwn/svelte/internal"
)

// Component is the per-component context frame: the lexical owner of effects
// created during initialisation, and the carrier of the mode flags that
// drive mutation validation and equality defaults.
type Component struct {
	ctx *internal.ComponentContext
}

var errOutsideComponent = errors.New("no component is being initialised")

// PushComponent opens a component frame. strict selects runes-mode mutation
// validation; immutable tells the legacy equality predicate that
// object-valued props are never mutated in place.
func PushComponent(props any, strict, immutable bool) *Component {
	return &Component{internal.GetRuntime().Push(props, strict, immutable)}
}

// PopComponent closes the current frame, marks the component mounted and
// schedules its deferred effects. The optional accessors value is preserved
// on the frame for the embedder.
func PopComponent(accessors ...any) *Component {
	var acc any
	if len(accessors) > 0 {
		acc = accessors[0]
	}
	ctx := internal.GetRuntime().Pop(acc)
	if ctx == nil {
		return nil
	}
	return &Component{ctx}
}

func currentComponent() *internal.ComponentContext {
	ctx := internal.GetRuntime().CurrentComponent()
	if ctx == nil {
		panic(errOutsideComponent)
	}
	return ctx
}

// SetContext stores a value visible to the current component and its
// descendants.
func SetContext(key, value any) {
	currentComponent().SetContext(key, value)
}

// GetContext resolves a context value through the component's parent chain.
func GetContext[T any](key any) (T, bool) {
	v, ok := currentComponent().GetContext(key)
	return as[T](v), ok
}

// BeforeUpdate registers a callback run before the component's effects in
// each update cycle.
func BeforeUpdate(fn func()) {
	currentComponent().BeforeUpdate(fn)
}

// AfterUpdate registers a callback run once the component's pre-and-render
// work has drained.
func AfterUpdate(fn func()) {
	currentComponent().AfterUpdate(fn)
}

// OnComponentError registers a catcher for producer panics raised by effects
// owned by the current component.
func OnComponentError(fn func(any)) {
	currentComponent().OnError(fn)
}

// Props returns the props the frame was pushed with.
func (c *Component) Props() any { return c.ctx.Props() }

// Accessors returns the value handed to PopComponent.
func (c *Component) Accessors() any { return c.ctx.Accessors() }
