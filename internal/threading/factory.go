package threading

import (
	"isominer/internal/threading/core"
	"isominer/internal/threading/monitoring"
)

// ThreadingComponents holds all threading-related components
type ThreadingComponents struct {
	WorkerPool         *core.WorkerPool
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates and initializes all threading components.
// The worker pool is started with one worker per CPU.
func NewThreadingComponents() *ThreadingComponents {
	return &ThreadingComponents{
		WorkerPool:         core.CreateDefaultWorkerPool(),
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
}

// Shutdown gracefully shuts down all threading components
func (tc *ThreadingComponents) Shutdown() {
	if tc.WorkerPool != nil {
		tc.WorkerPool.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// SyncWorkerMetrics copies the pool's completed job count into the monitor.
func (tc *ThreadingComponents) SyncWorkerMetrics() {
	if tc.WorkerPool != nil && tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.UpdateWorkerMetrics(tc.WorkerPool.Completed())
	}
}

// GetPerformanceMetrics returns current performance metrics
func (tc *ThreadingComponents) GetPerformanceMetrics() monitoring.GameMetrics {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.GetCurrentMetrics()
	}
	return monitoring.GameMetrics{}
}
