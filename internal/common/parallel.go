package common

import (
	"runtime"
	"sync"
)

// ParallelFor runs fn(i) over i in [0, n) using up to workers goroutines.
// workers <= 0 means GOMAXPROCS. Work is distributed by striding to balance
// uneven workloads. It returns once every fn call has returned.
func ParallelFor(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)

	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := w; i < n; i += workers {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
