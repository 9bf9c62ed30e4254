package core

import (
	"context"
	"runtime"
	"sync"
)

var (
	sharedPool *Pool
	poolOnce   sync.Once
)

// PoolSize is the worker count for a requested thread count: never more than
// one less than the CPUs available, never less than one.
func PoolSize(requested int) int {
	return max(1, min(requested, runtime.NumCPU()-1))
}

// SharedPool returns the process-wide pool, sizing it from requested on the
// first call. Later calls get the same pool whatever they request.
func SharedPool(requested int) *Pool {
	poolOnce.Do(func() {
		sharedPool = NewPool(PoolSize(requested))
	})
	return sharedPool
}

// Pool runs batches of independent items on a fixed number of workers.
type Pool struct {
	size int
}

// NewPool returns a pool of size workers, at least one.
func NewPool(size int) *Pool {
	return &Pool{size: max(1, size)}
}

// Size is the worker count.
func (p *Pool) Size() int {
	return p.size
}

type poolResult struct {
	index int
	err   error
}

// Run calls fn for each index in [0, n) and waits for all of them. The result
// holds fn's error at each index. A failing item never stops the others.
// Cancelling ctx stops new items from starting; those get ctx's error.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}

	workerCount := min(p.size, n)
	workCh := make(chan int)
	resultCh := make(chan poolResult)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				resultCh <- poolResult{index: idx, err: fn(ctx, idx)}
			}
		}()
	}

	go func() {
		defer close(workCh)
		for i := 0; i < n; i++ {
			if ctx.Err() != nil {
				return
			}
			select {
			case workCh <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	done := make([]bool, n)
	for res := range resultCh {
		errs[res.index] = res.err
		done[res.index] = true
	}
	for i := range errs {
		if !done[i] {
			errs[i] = ctx.Err()
		}
	}
	return errs
}
