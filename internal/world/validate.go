package world

import (
	"context"

	"isominer/internal/mining"
	"isominer/internal/navigation"
	"isominer/internal/threading/core"
)

// standRequest ties a batch request back to its ore.
type standRequest struct {
	ore  *mining.OreNode
	tile navigation.Tile
}

// Validate checks that every ore has at least one walkable orthogonal
// neighbor reachable from spawn and returns the ones that do not. Searches
// run on a grid snapshot across the pool; the world itself is not touched.
func (w *World) Validate(ctx context.Context, pool *core.WorkerPool) []*mining.OreNode {
	var stands []standRequest
	var reqs []navigation.Request
	spawn := w.SpawnPoint()

	for _, ore := range w.ores {
		for _, n := range w.Grid.Neighbors4(ore.Tile.X, ore.Tile.Z) {
			stands = append(stands, standRequest{ore: ore, tile: n})
			reqs = append(reqs, navigation.Request{
				Start: spawn,
				Goal:  w.Grid.TileCenter(n.X, n.Z, spawn.Y),
			})
		}
	}

	reachable := make(map[*mining.OreNode]bool, len(w.ores))
	results := navigation.PlanBatch(ctx, pool, w.Grid, w.Pathfinder.Options(), reqs)
	for i, res := range results {
		if res.OK {
			reachable[stands[i].ore] = true
		}
	}

	var unreachable []*mining.OreNode
	for _, ore := range w.ores {
		if !reachable[ore] {
			unreachable = append(unreachable, ore)
			w.logger.Printf("Warning: %s at (%d,%d) cannot be reached from spawn (%d,%d)",
				ore.InteractionName(), ore.Tile.X, ore.Tile.Z, w.Spawn.X, w.Spawn.Z)
		}
	}
	return unreachable
}
