// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package soft

import (
	"runtime"
	"sync"
)

// jobSystem is a fixed-size worker pool providing a single barrier entry
// point, ExecuteAll, used exactly once per frame to shade every non-empty
// tile in parallel (spec.md §4.9). The sizing and per-worker-queue shape
// is adapted from the work-stealing pattern in
// _examples/gogpu-gg/internal/parallel/pool.go, simplified to plain stdlib
// (sync, runtime) since spec.md explicitly allows "a simple per-thread
// queue or a single shared queue with locking" and no pack repo's
// *importable* dependency covers this concern (see DESIGN.md / SPEC_FULL
// §9.1).
type jobSystem struct {
	workers int
}

// newJobSystem returns a jobSystem sized to the host's parallelism, or to
// workers if positive.
func newJobSystem(workers int) *jobSystem {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}
	return &jobSystem{workers: workers}
}

// ExecuteAll runs every task in work, distributed round-robin across a
// fixed set of goroutines, and blocks until all complete — the barrier
// spec.md §4.9 requires ("the main thread performs binning, then pushes
// one task per non-empty tile, then waits on the barrier").
func (js *jobSystem) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	n := js.workers
	if n > len(work) {
		n = len(work)
	}
	var wg sync.WaitGroup
	wg.Add(n)
	for w := 0; w < n; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := w; i < len(work); i += n {
				work[i]()
			}
		}()
	}
	wg.Wait()
}
