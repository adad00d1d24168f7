// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool hands jobs to its workers. With a single worker jobs run inline on
// the caller's goroutine. Jobs submitted after ctx is done are dropped and
// counted.
type Pool struct {
	wg      sync.WaitGroup
	size    int
	dropped atomic.Uint64

	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers workers; values below 1 mean GOMAXPROCS.
func Start(ctx context.Context, numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{size: numWorkers}
	pool.Do = func(f func()) {
		if ctx.Err() != nil {
			pool.dropped.Add(1)
			return
		}
		f()
	}
	pool.Wait = func(bool) {}
	pool.Cancel = func() {}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					if ctx.Err() != nil {
						pool.dropped.Add(1)
						continue
					}
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			select {
			case workChan <- f:
			case <-ctx.Done():
				pool.dropped.Add(1)
			}
		}

		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
	}

	return pool
}

func (p *Pool) Size() int {
	return p.size
}

// Dropped is the number of jobs skipped because the context ended.
func (p *Pool) Dropped() uint64 {
	return p.dropped.Load()
}
