package service

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewWorkerPool_DefaultsToCPUCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers != runtime.NumCPU() {
		t.Errorf("Expected %d workers, got %d", runtime.NumCPU(), pool.workers)
	}

	pool = NewWorkerPool(-3)
	if pool.workers != runtime.NumCPU() {
		t.Errorf("Expected %d workers for negative input, got %d", runtime.NumCPU(), pool.workers)
	}

	pool = NewWorkerPool(4)
	if pool.workers != 4 {
		t.Errorf("Expected 4 workers, got %d", pool.workers)
	}
}

func TestWorkerPool_RunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(3)
	pool.Start()
	defer pool.Close()

	var counter int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&counter, 1)
		})
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("Expected 50 jobs executed, got %d", counter)
	}
}

func TestWorkerPool_StartIsIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	pool.Start()
	defer pool.Close()

	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	<-done
}
