package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"isominer/internal/navigation"
)

// Alert thresholds.
const (
	lowFPSThreshold       = 30
	slowSearchThreshold   = 5 * time.Millisecond
	highMemoryThreshold   = 500
	frameAverageSmoothing = 0.1
)

// PerformanceMonitor tracks frame timings and path search statistics. Frame
// methods are called from the game loop; RecordSearch may be called from
// any goroutine.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Per-phase metrics
	tickTime atomic.Uint64
	drawTime atomic.Uint64

	// Search metrics
	searches        atomic.Uint64
	failedSearches  atomic.Uint64
	expandedTotal   atomic.Uint64
	searchTimeTotal atomic.Uint64 // nanoseconds
	lastExpanded    atomic.Uint64
	lastSearchTime  atomic.Uint64

	// Threading metrics
	completedJobs atomic.Int64

	// Statistics
	mutex        sync.RWMutex
	avgFrameTime float64
	maxExpanded  int
	slowest      navigation.SearchStats
	startTime    time.Time

	enableDetailed bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		enableDetailed: true,
	}
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.RecordFrame(time.Since(ft.startTime))
}

// RecordFrame stores one frame duration and folds it into the running
// average.
func (pm *PerformanceMonitor) RecordFrame(d time.Duration) {
	ns := uint64(d.Nanoseconds())
	pm.frameTime.Store(ns)
	count := pm.frameCount.Add(1)

	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	if !pm.enableDetailed {
		return
	}
	if count == 1 {
		pm.avgFrameTime = float64(ns)
		return
	}
	pm.avgFrameTime += (float64(ns) - pm.avgFrameTime) * frameAverageSmoothing
}

// RecordSearch is a navigation.Options observer.
func (pm *PerformanceMonitor) RecordSearch(stats navigation.SearchStats) {
	pm.searches.Add(1)
	if !stats.Found {
		pm.failedSearches.Add(1)
	}
	pm.expandedTotal.Add(uint64(stats.Expanded))
	pm.searchTimeTotal.Add(uint64(stats.Elapsed.Nanoseconds()))
	pm.lastExpanded.Store(uint64(stats.Expanded))
	pm.lastSearchTime.Store(uint64(stats.Elapsed.Nanoseconds()))

	pm.mutex.Lock()
	if stats.Expanded > pm.maxExpanded {
		pm.maxExpanded = stats.Expanded
	}
	if stats.Elapsed > pm.slowest.Elapsed {
		pm.slowest = stats
	}
	pm.mutex.Unlock()
}

// UpdateWorkerMetrics records the pool's completed job count.
func (pm *PerformanceMonitor) UpdateWorkerMetrics(completed int64) {
	pm.completedJobs.Store(completed)
}

// GameMetrics is the HUD view of the monitor.
type GameMetrics struct {
	FramesPerSecond  float64
	AvgFrameTimeMs   float64
	TickTimeMs       float64
	DrawTimeMs       float64
	Searches         uint64
	FailedSearches   uint64
	LastExpanded     uint64
	LastSearchTimeUs float64
	AvgSearchTimeUs  float64
	MaxExpanded      int
	CompletedJobs    int64
	MemoryUsageMB    uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() GameMetrics {
	pm.mutex.RLock()
	avgFrame := pm.avgFrameTime
	maxExpanded := pm.maxExpanded
	pm.mutex.RUnlock()

	fps := 0.0
	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps = 1e9 / float64(frameTime)
	}

	searches := pm.searches.Load()
	avgSearch := 0.0
	if searches > 0 {
		avgSearch = float64(pm.searchTimeTotal.Load()) / float64(searches) / 1e3
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return GameMetrics{
		FramesPerSecond:  fps,
		AvgFrameTimeMs:   avgFrame / 1e6,
		TickTimeMs:       float64(pm.tickTime.Load()) / 1e6,
		DrawTimeMs:       float64(pm.drawTime.Load()) / 1e6,
		Searches:         searches,
		FailedSearches:   pm.failedSearches.Load(),
		LastExpanded:     pm.lastExpanded.Load(),
		LastSearchTimeUs: float64(pm.lastSearchTime.Load()) / 1e3,
		AvgSearchTimeUs:  avgSearch,
		MaxExpanded:      maxExpanded,
		CompletedJobs:    pm.completedJobs.Load(),
		MemoryUsageMB:    memStats.Alloc / 1024 / 1024,
	}
}

// SlowestSearch returns the stats of the slowest search seen so far.
func (pm *PerformanceMonitor) SlowestSearch() navigation.SearchStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()
	return pm.slowest
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	m := pm.GetCurrentMetrics()

	pm.mutex.RLock()
	uptime := time.Since(pm.startTime)
	pm.mutex.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":     uptime.Seconds(),
		"frame_count":        pm.frameCount.Load(),
		"avg_frame_time_ms":  m.AvgFrameTimeMs,
		"current_fps":        m.FramesPerSecond,
		"tick_time_ms":       m.TickTimeMs,
		"draw_time_ms":       m.DrawTimeMs,
		"searches":           m.Searches,
		"failed_searches":    m.FailedSearches,
		"expanded_total":     pm.expandedTotal.Load(),
		"max_expanded":       m.MaxExpanded,
		"avg_search_time_us": m.AvgSearchTimeUs,
		"completed_jobs":     m.CompletedJobs,
		"memory_alloc_mb":    m.MemoryUsageMB,
		"cpu_cores":          runtime.NumCPU(),
		"goroutines":         runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	if frameTime := pm.frameTime.Load(); frameTime > 0 {
		fps := 1e9 / float64(frameTime)
		if fps < lowFPSThreshold {
			alerts = append(alerts, PerformanceAlert{
				Type:      "low_fps",
				Message:   "Frame rate is below 30 FPS",
				Value:     fps,
				Threshold: lowFPSThreshold,
				Timestamp: currentTime,
			})
		}
	}

	if last := time.Duration(pm.lastSearchTime.Load()); last > slowSearchThreshold {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_search",
			Message:   "Last path search took longer than 5ms",
			Value:     float64(last) / float64(time.Millisecond),
			Threshold: float64(slowSearchThreshold) / float64(time.Millisecond),
			Timestamp: currentTime,
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024
	if memoryMB > highMemoryThreshold {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: highMemoryThreshold,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// EnableDetailedLogging enables/disables the running frame average
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableDetailed = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.tickTime.Store(0)
	pm.drawTime.Store(0)
	pm.searches.Store(0)
	pm.failedSearches.Store(0)
	pm.expandedTotal.Store(0)
	pm.searchTimeTotal.Store(0)
	pm.lastExpanded.Store(0)
	pm.lastSearchTime.Store(0)
	pm.completedJobs.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.maxExpanded = 0
	pm.slowest = navigation.SearchStats{}
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}

// ProfiledFunction wraps a function with performance timing
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)

	switch name {
	case "tick":
		pm.tickTime.Store(uint64(duration.Nanoseconds()))
	case "draw":
		pm.drawTime.Store(uint64(duration.Nanoseconds()))
	}

	return duration
}
