package core

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"isominer/internal/mathutil"
)

// WorkerPool runs jobs on a fixed set of goroutines. It is used for batch
// path planning at world-build time, never from inside a frame tick.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	started    atomic.Bool
	completed  SafeCounter
}

// NewWorkerPool creates a pool; numWorkers <= 0 means one per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// CreateDefaultWorkerPool creates and starts a pool with one worker per CPU.
func CreateDefaultWorkerPool() *WorkerPool {
	pool := NewWorkerPool(0)
	pool.Start()
	return pool
}

// Start launches the workers. Calling it twice is a no-op.
func (wp *WorkerPool) Start() {
	if !wp.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.completed.Increment()
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit queues a job. The pool must be started.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until every queued job has finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts the workers down. Queued jobs that have not started are dropped.
func (wp *WorkerPool) Stop() {
	close(wp.quit)
}

// NumWorkers returns the number of workers in the pool.
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Completed returns how many jobs have run since the pool was created.
func (wp *WorkerPool) Completed() int64 {
	return wp.completed.Get()
}

// ParallelChunksWithContext splits [start, end) into one contiguous chunk per
// worker and hands each chunk to fn, so fn can keep per-chunk state.
func (wp *WorkerPool) ParallelChunksWithContext(ctx context.Context, start, end int, fn func(lo, hi int)) {
	if start >= end {
		return
	}

	totalWork := end - start
	chunkSize := mathutil.IntMax(1, (totalWork+wp.numWorkers-1)/wp.numWorkers)

	for i := start; i < end; i += chunkSize {
		lo := i
		hi := mathutil.IntMin(i+chunkSize, end)
		wp.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			fn(lo, hi)
		})
	}
	wp.Wait()
}

// SafeCounter is a lock-free counter.
type SafeCounter struct {
	value atomic.Int64
}

// Increment atomically increments the counter and returns the new value
func (c *SafeCounter) Increment() int64 {
	return c.value.Add(1)
}

// Add atomically adds delta to the counter and returns the new value
func (c *SafeCounter) Add(delta int64) int64 {
	return c.value.Add(delta)
}

// Get atomically gets the counter value
func (c *SafeCounter) Get() int64 {
	return c.value.Load()
}
