package navigation

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"isominer/internal/mathutil"
	"isominer/internal/threading/core"
)

const costTolerance = 1e-9

func at(x, z float64) mathutil.Vec3 { return mathutil.Vec3{X: x, Z: z} }

func TestFindPathDiagonalOpenGrid(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	pf := NewPathfinder(g, DefaultOptions())

	start := at(0.5, 0.5)
	path, ok := pf.FindPath(start, at(4.5, 4.5))
	if !ok {
		t.Fatal("expected a path on an open grid")
	}
	if len(path) != 4 {
		t.Fatalf("expected 4 waypoints, got %d: %v", len(path), path)
	}
	for i, p := range path {
		want := float64(i) + 1.5
		if p.X != want || p.Z != want || p.Y != 0 {
			t.Errorf("waypoint %d: expected (%.1f,0,%.1f), got %+v", i, want, want, p)
		}
	}
	if cost := pf.Cost(start, path); math.Abs(cost-4*math.Sqrt2) > costTolerance {
		t.Errorf("expected cost 4*sqrt2, got %f", cost)
	}
}

func TestFindPathRoutesAroundBlockedCenter(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	g.SetWalkable(2, 2, false)
	pf := NewPathfinder(g, DefaultOptions())

	start := at(0.5, 0.5)
	path, ok := pf.FindPath(start, at(4.5, 4.5))
	if !ok {
		t.Fatal("expected a path around the blocked tile")
	}
	for _, p := range path {
		if tile := g.WorldToTile(p); tile == (Tile{2, 2}) {
			t.Fatalf("path passes through blocked tile: %v", path)
		}
	}
	if cost := pf.Cost(start, path); cost <= 4*math.Sqrt2 {
		t.Errorf("detour should cost more than 4*sqrt2, got %f", cost)
	}
	last := path[len(path)-1]
	if last.X != 4.5 || last.Z != 4.5 {
		t.Errorf("path should end at the goal center, got %+v", last)
	}
}

func TestFindPathIsDeterministic(t *testing.T) {
	g := NewTileGrid(12, 12, 1)
	for _, b := range [][2]int{{3, 3}, {3, 4}, {3, 5}, {7, 2}, {8, 8}, {5, 9}} {
		g.SetWalkable(b[0], b[1], false)
	}
	pf := NewPathfinder(g, DefaultOptions())
	first, ok := pf.FindPath(at(0.5, 0.5), at(11.5, 11.5))
	if !ok {
		t.Fatal("expected path")
	}
	for i := 0; i < 5; i++ {
		again, _ := pf.FindPath(at(0.5, 0.5), at(11.5, 11.5))
		fresh, _ := NewPathfinder(g, DefaultOptions()).FindPath(at(0.5, 0.5), at(11.5, 11.5))
		if !samePath(first, again) || !samePath(first, fresh) {
			t.Fatalf("run %d produced a different path", i)
		}
	}
}

func TestFindPathBlockedGoal(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	g.SetWalkable(3, 3, false)
	pf := NewPathfinder(g, DefaultOptions())
	if path, ok := pf.FindPath(at(0.5, 0.5), at(3.2, 3.9)); ok || path != nil {
		t.Errorf("expected no path to a blocked tile, got %v", path)
	}
}

func TestFindPathUnreachableGoal(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	for z := 0; z < 5; z++ {
		g.SetWalkable(2, z, false)
	}
	pf := NewPathfinder(g, DefaultOptions())
	if _, ok := pf.FindPath(at(0.5, 0.5), at(4.5, 0.5)); ok {
		t.Errorf("expected no path across a full wall")
	}
}

func TestFindPathSameTile(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	pf := NewPathfinder(g, DefaultOptions())
	path, ok := pf.FindPath(at(1.1, 1.2), at(1.9, 1.8))
	if !ok {
		t.Fatal("same-tile request is a success, not a failure")
	}
	if len(path) != 0 {
		t.Errorf("expected zero waypoints, got %v", path)
	}
}

func TestFindPathClampsOutOfBoundsGoal(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	pf := NewPathfinder(g, DefaultOptions())
	path, ok := pf.FindPath(at(0.5, 2.5), at(250, 2.5))
	if !ok {
		t.Fatal("far-away tap should clamp to the edge tile")
	}
	last := g.WorldToTile(path[len(path)-1])
	if last != (Tile{4, 2}) {
		t.Errorf("expected to end at edge tile (4,2), got %v", last)
	}

	path, ok = pf.FindPath(at(-10, -10), at(-3, -7))
	if !ok || len(path) != 0 {
		t.Errorf("both points clamp into (0,0): expected empty path, got %v ok=%v", path, ok)
	}
}

func TestFindPathKeepsStartHeight(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	pf := NewPathfinder(g, DefaultOptions())
	path, _ := pf.FindPath(mathutil.Vec3{X: 0.5, Y: 1.25, Z: 0.5}, mathutil.Vec3{X: 2.5, Y: 9, Z: 0.5})
	for _, p := range path {
		if p.Y != 1.25 {
			t.Fatalf("waypoints should carry the start height, got %+v", p)
		}
	}
}

func TestCornerCutForcesDetour(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	g.SetWalkable(2, 1, false)
	g.SetWalkable(1, 2, false)

	pf := NewPathfinder(g, DefaultOptions())
	path, ok := pf.FindPath(at(1.5, 1.5), at(2.5, 2.5))
	if !ok {
		t.Fatal("expected a detour")
	}
	if len(path) < 2 {
		t.Fatalf("diagonal squeeze must be rejected, got %v", path)
	}

	loose := DefaultOptions()
	loose.PreventCornerCut = false
	path, ok = NewPathfinder(g, loose).FindPath(at(1.5, 1.5), at(2.5, 2.5))
	if !ok || len(path) != 1 {
		t.Errorf("without prevention the single diagonal step is legal, got %v", path)
	}
}

func TestCornerCutIsolatesCornerTile(t *testing.T) {
	g := NewTileGrid(2, 2, 1)
	g.SetWalkable(1, 0, false)
	g.SetWalkable(0, 1, false)
	pf := NewPathfinder(g, DefaultOptions())
	if _, ok := pf.FindPath(at(0.5, 0.5), at(1.5, 1.5)); ok {
		t.Errorf("(0,0)->(1,1) through a blocked corner must fail")
	}
}

func TestFourWayUsesManhattan(t *testing.T) {
	g := NewTileGrid(6, 6, 1)
	opts := DefaultOptions()
	opts.Diagonal = false
	pf := NewPathfinder(g, opts)

	if h := pf.Heuristic(Tile{0, 0}, Tile{3, 4}); h != 7 {
		t.Errorf("expected manhattan 7, got %f", h)
	}
	start := at(0.5, 0.5)
	path, ok := pf.FindPath(start, at(3.5, 4.5))
	if !ok || len(path) != 7 {
		t.Fatalf("expected 7 orthogonal steps, got %v", path)
	}
	prev := g.WorldToTile(start)
	for _, p := range path {
		cur := g.WorldToTile(p)
		if mathutil.IntAbs(cur.X-prev.X)+mathutil.IntAbs(cur.Z-prev.Z) != 1 {
			t.Fatalf("non-orthogonal step %v -> %v", prev, cur)
		}
		prev = cur
	}
}

func TestOctileHeuristic(t *testing.T) {
	pf := NewPathfinder(NewTileGrid(10, 10, 1), DefaultOptions())
	h := pf.Heuristic(Tile{0, 0}, Tile{5, 2})
	want := 3 + 2*math.Sqrt2
	if math.Abs(h-want) > costTolerance {
		t.Errorf("expected %f, got %f", want, h)
	}
}

func TestOptionsFallBackToDefaultCosts(t *testing.T) {
	pf := NewPathfinder(NewTileGrid(3, 3, 1), Options{Diagonal: true})
	if pf.Options().TileCost != 1 || pf.Options().DiagonalCost != math.Sqrt2 {
		t.Errorf("zero costs should fall back to 1 and sqrt2, got %+v", pf.Options())
	}
}

func TestObserverReceivesStats(t *testing.T) {
	g := NewTileGrid(5, 5, 1)
	var seen []SearchStats
	opts := DefaultOptions()
	opts.Observer = func(s SearchStats) { seen = append(seen, s) }
	pf := NewPathfinder(g, opts)

	pf.FindPath(at(0.5, 0.5), at(4.5, 4.5))
	g.SetWalkable(4, 4, false)
	pf.FindPath(at(0.5, 0.5), at(4.5, 4.5))

	if len(seen) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(seen))
	}
	if !seen[0].Found || seen[0].Length != 5 || seen[0].Expanded == 0 {
		t.Errorf("unexpected stats for a found path: %+v", seen[0])
	}
	if seen[1].Found || seen[1].Goal != (Tile{4, 4}) {
		t.Errorf("unexpected stats for a blocked goal: %+v", seen[1])
	}
}

// TestPathsAreOptimal compares A* against exhaustive uniform-cost search on
// random 10x10 grids.
func TestPathsAreOptimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 40; round++ {
		g := NewTileGrid(10, 10, 1)
		for i := 0; i < 18; i++ {
			g.SetWalkable(rng.Intn(10), rng.Intn(10), false)
		}
		start := Tile{rng.Intn(10), rng.Intn(10)}
		goal := Tile{rng.Intn(10), rng.Intn(10)}
		g.SetWalkable(start.X, start.Z, true)

		for _, diagonal := range []bool{true, false} {
			opts := DefaultOptions()
			opts.Diagonal = diagonal
			pf := NewPathfinder(g, opts)

			best, reachable := bruteForceCost(pf, start, goal)
			tiles, ok := pf.FindTilePath(start, goal)
			if ok != reachable {
				t.Fatalf("round %d diag=%v: A* ok=%v, brute force reachable=%v", round, diagonal, ok, reachable)
			}
			if !ok {
				continue
			}
			cost := 0.0
			for i := 1; i < len(tiles); i++ {
				if !g.IsWalkable(tiles[i].X, tiles[i].Z) {
					t.Fatalf("round %d: path crosses blocked tile %v", round, tiles[i])
				}
				cost += pf.StepCost(tiles[i-1], tiles[i])
			}
			if cost > best+costTolerance {
				t.Fatalf("round %d diag=%v: A* cost %f exceeds optimum %f", round, diagonal, cost, best)
			}
		}
	}
}

func TestPlanBatchMatchesSequential(t *testing.T) {
	g := NewTileGrid(8, 8, 1)
	g.SetWalkable(4, 4, false)
	g.SetWalkable(4, 5, false)
	pool := core.NewWorkerPool(3)
	pool.Start()
	defer pool.Stop()

	reqs := []Request{
		{Start: at(0.5, 0.5), Goal: at(7.5, 7.5)},
		{Start: at(0.5, 7.5), Goal: at(7.5, 0.5)},
		{Start: at(3.5, 3.5), Goal: at(4.5, 4.5)},
		{Start: at(2.5, 2.5), Goal: at(2.5, 2.5)},
		{Start: at(6.5, 1.5), Goal: at(1.5, 6.5)},
	}
	results := PlanBatch(context.Background(), pool, g, DefaultOptions(), reqs)
	pf := NewPathfinder(g, DefaultOptions())
	for i, r := range reqs {
		path, ok := pf.FindPath(r.Start, r.Goal)
		if ok != results[i].OK || !samePath(path, results[i].Path) {
			t.Errorf("request %d: batch result differs from sequential", i)
		}
	}
	if results[2].OK {
		t.Errorf("request to blocked tile should fail")
	}
}

func TestHeapBreaksTiesByInsertionOrder(t *testing.T) {
	var h nodeHeap
	for i := 0; i < 6; i++ {
		h.push(gridNode{idx: i, f: 2})
	}
	h.push(gridNode{idx: 99, f: 1})
	first, _ := h.pop()
	if first.idx != 99 {
		t.Fatalf("lowest f should pop first, got %d", first.idx)
	}
	for want := 0; want < 6; want++ {
		n, ok := h.pop()
		if !ok || n.idx != want {
			t.Fatalf("expected FIFO order among equal priorities: want %d got %d", want, n.idx)
		}
	}
	if _, ok := h.pop(); ok {
		t.Errorf("heap should be empty")
	}
}

func samePath(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// bruteForceCost runs a plain O(n^2) Dijkstra over the same neighbor rules.
func bruteForceCost(pf *Pathfinder, start, goal Tile) (float64, bool) {
	g := pf.grid
	if !g.IsWalkable(goal.X, goal.Z) {
		return 0, false
	}
	n := g.width * g.height
	dist := make([]float64, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[g.index(start.X, start.Z)] = 0
	for {
		cur := -1
		for i := 0; i < n; i++ {
			if !done[i] && !math.IsInf(dist[i], 1) && (cur < 0 || dist[i] < dist[cur]) {
				cur = i
			}
		}
		if cur < 0 {
			return 0, false
		}
		done[cur] = true
		ct := Tile{X: cur % g.width, Z: cur / g.width}
		if ct == goal {
			return dist[cur], true
		}
		var neighbors []Tile
		if pf.opts.Diagonal {
			neighbors = g.Neighbors8(ct.X, ct.Z, pf.opts.PreventCornerCut)
		} else {
			neighbors = g.Neighbors4(ct.X, ct.Z)
		}
		for _, nb := range neighbors {
			ni := g.index(nb.X, nb.Z)
			if d := dist[cur] + pf.StepCost(ct, nb); d < dist[ni] {
				dist[ni] = d
			}
		}
	}
}
