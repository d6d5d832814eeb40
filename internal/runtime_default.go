//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

// The runtime is single-threaded by contract; keying the registry by
// goroutine id gives every goroutine its own isolated graph without locks in
// the hot path.
var runtimes sync.Map

func GetRuntime() *Runtime {
	gid := goid.Get()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime()
	runtimes.Store(gid, r)
	return r
}
