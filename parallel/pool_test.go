package parallel

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{1, 4} {
		pool := Start(context.Background(), workers)

		var count atomic.Int64
		for range 100 {
			pool.Do(func() { count.Add(1) })
		}
		pool.Wait(true)

		if got := count.Load(); got != 100 {
			t.Errorf("%d workers: expected 100 jobs, got %d", workers, got)
		}
		if pool.Dropped() != 0 {
			t.Errorf("%d workers: expected no dropped jobs, got %d", workers, pool.Dropped())
		}
	}
}

func TestPoolDefaultSize(t *testing.T) {
	pool := Start(context.Background(), 0)
	defer pool.Wait(true)

	if pool.Size() != runtime.GOMAXPROCS(0) {
		t.Errorf("expected GOMAXPROCS workers, got %d", pool.Size())
	}
}

func TestPoolDropsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := Start(ctx, 1)
	ran := false
	pool.Do(func() { ran = true })
	pool.Wait(true)

	if ran {
		t.Error("job ran after cancellation")
	}
	if pool.Dropped() != 1 {
		t.Errorf("expected 1 dropped job, got %d", pool.Dropped())
	}
}
