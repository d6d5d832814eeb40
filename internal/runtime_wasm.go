//go:build wasm

package internal

import "sync"

// wasm runs one goroutine against one host event loop, so a single global
// runtime is the whole story.
var once sync.Once
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	once.Do(func() {
		globalRuntime = NewRuntime()
	})

	return globalRuntime
}
