package navigation

import (
	"context"

	"isominer/internal/mathutil"
	"isominer/internal/threading/core"
)

// Request is one start/goal pair for PlanBatch.
type Request struct {
	Start mathutil.Vec3
	Goal  mathutil.Vec3
}

// Result mirrors FindPath's return values.
type Result struct {
	Path Path
	OK   bool
}

// PlanBatch solves many requests in parallel against a snapshot of grid.
// Each worker chunk gets its own Pathfinder; results keep request order.
// Requests skipped because ctx was cancelled report OK=false.
func PlanBatch(ctx context.Context, pool *core.WorkerPool, grid *TileGrid, opts Options, reqs []Request) []Result {
	results := make([]Result, len(reqs))
	if len(reqs) == 0 {
		return results
	}
	snap := grid.Snapshot()
	// Observers are not expected to be goroutine-safe.
	opts.Observer = nil

	pool.ParallelChunksWithContext(ctx, 0, len(reqs), func(lo, hi int) {
		pf := NewPathfinder(snap, opts)
		for i := lo; i < hi; i++ {
			if ctx.Err() != nil {
				return
			}
			path, ok := pf.FindPath(reqs[i].Start, reqs[i].Goal)
			results[i] = Result{Path: path, OK: ok}
		}
	})
	return results
}
