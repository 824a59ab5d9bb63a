package compute

import (
	"runtime"
	"sync"
)

// Pool runs data-parallel loops over an index range, chunked across a
// fixed number of workers. Run does not return until every worker has
// finished, so consecutive Run calls are separated by a full barrier.
// The two-pass force evaluation relies on that ordering.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count; n <= 0 selects
// one worker per CPU.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{workers: n}
}

func (p *Pool) Workers() int { return p.workers }

// Run invokes fn(i) for every i in [lo, hi). Iterations must be
// independent: each worker owns a contiguous chunk and fn must only
// write to outputs indexed by i.
func (p *Pool) Run(lo, hi int, fn func(i int)) {
	n := hi - lo
	if n <= 0 {
		return
	}
	if n < 16 || p.workers == 1 {
		for i := lo; i < hi; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + p.workers - 1) / p.workers

	for w := 0; w < p.workers; w++ {
		start := lo + w*chunkSize
		if start >= hi {
			break
		}
		end := start + chunkSize
		if end > hi {
			end = hi
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}
