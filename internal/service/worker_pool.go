package service

import (
	"runtime"
	"sync"
)

// WorkerPool fans independent per-format pipeline jobs out across a fixed
// set of goroutines. Formats share no mutable state, so jobs never
// synchronize with each other.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
}

// NewWorkerPool creates a pool with the specified number of workers; zero or
// negative uses the CPU count.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Idempotent.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Submit queues a job for execution.
func (wp *WorkerPool) Submit(job func()) {
	wp.jobQueue <- job
}

// Close shuts down the pool. Submitting after Close panics.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}
