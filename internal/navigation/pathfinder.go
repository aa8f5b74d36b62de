package navigation

import (
	"math"
	"time"

	"isominer/internal/mathutil"
)

// Path is an ordered list of tile centers from the tile after the start up to
// and including the goal. An empty Path means the start already is the goal.
type Path []mathutil.Vec3

// SearchStats describes one FindPath call.
type SearchStats struct {
	Start    Tile
	Goal     Tile
	Expanded int
	Found    bool
	Length   int
	Elapsed  time.Duration
}

// Options controls connectivity and step costs.
type Options struct {
	Diagonal         bool
	PreventCornerCut bool
	TileCost         float64
	DiagonalCost     float64

	// Observer, when set, receives stats after every search.
	Observer func(SearchStats)
}

// DefaultOptions is 8-way movement with corner-cut prevention, costs 1 and √2.
func DefaultOptions() Options {
	return Options{
		Diagonal:         true,
		PreventCornerCut: true,
		TileCost:         1,
		DiagonalCost:     math.Sqrt2,
	}
}

func (o Options) normalized() Options {
	if o.TileCost <= 0 {
		o.TileCost = 1
	}
	if o.DiagonalCost <= 0 {
		o.DiagonalCost = math.Sqrt2
	}
	return o
}

type pathScratch struct {
	gScore   []float64
	cameFrom []int
	closed   []bool
	heap     nodeHeap
}

func (ps *pathScratch) prepare(size int) {
	if cap(ps.gScore) < size {
		ps.gScore = make([]float64, size)
		ps.cameFrom = make([]int, size)
		ps.closed = make([]bool, size)
	} else {
		ps.gScore = ps.gScore[:size]
		ps.cameFrom = ps.cameFrom[:size]
		ps.closed = ps.closed[:size]
	}
	for i := 0; i < size; i++ {
		ps.gScore[i] = math.Inf(1)
		ps.cameFrom[i] = -1
		ps.closed[i] = false
	}
	ps.heap.reset()
}

// Pathfinder runs A* over a shared TileGrid. It reuses scratch buffers
// between calls, so one Pathfinder must not be used from two goroutines at
// once; give each goroutine its own (they can share a grid Snapshot).
type Pathfinder struct {
	grid    *TileGrid
	opts    Options
	scratch pathScratch
}

func NewPathfinder(grid *TileGrid, opts Options) *Pathfinder {
	return &Pathfinder{grid: grid, opts: opts.normalized()}
}

func (pf *Pathfinder) Grid() *TileGrid { return pf.grid }

func (pf *Pathfinder) Options() Options { return pf.opts }

// SetObserver installs or clears the per-search stats hook.
func (pf *Pathfinder) SetObserver(fn func(SearchStats)) { pf.opts.Observer = fn }

// Heuristic estimates the remaining cost between two tiles: Manhattan for
// 4-way movement, octile for 8-way.
func (pf *Pathfinder) Heuristic(a, b Tile) float64 {
	dx := float64(mathutil.IntAbs(a.X - b.X))
	dz := float64(mathutil.IntAbs(a.Z - b.Z))
	d := pf.opts.TileCost
	if !pf.opts.Diagonal {
		return (dx + dz) * d
	}
	d2 := pf.opts.DiagonalCost
	return d*(dx+dz) + (d2-2*d)*math.Min(dx, dz)
}

// StepCost is the cost of moving between two adjacent tiles.
func (pf *Pathfinder) StepCost(a, b Tile) float64 {
	if a.X != b.X && a.Z != b.Z {
		return pf.opts.DiagonalCost
	}
	return pf.opts.TileCost
}

// Cost sums step costs along a path that starts at start.
func (pf *Pathfinder) Cost(start mathutil.Vec3, path Path) float64 {
	prev := pf.grid.ClampTile(pf.grid.WorldToTile(start))
	total := 0.0
	for _, p := range path {
		t := pf.grid.WorldToTile(p)
		total += pf.StepCost(prev, t)
		prev = t
	}
	return total
}

// FindPath plans from startWorld to goalWorld. Both points are clamped into
// the grid first. ok is false when the goal tile is blocked or unreachable;
// an ok result with zero waypoints means start and goal share a tile.
// Waypoints carry startWorld's Y.
func (pf *Pathfinder) FindPath(startWorld, goalWorld mathutil.Vec3) (Path, bool) {
	start := pf.grid.ClampTile(pf.grid.WorldToTile(startWorld))
	goal := pf.grid.ClampTile(pf.grid.WorldToTile(goalWorld))

	tiles, ok := pf.FindTilePath(start, goal)
	if !ok {
		return nil, false
	}
	path := make(Path, 0, len(tiles))
	for _, t := range tiles[1:] {
		path = append(path, pf.grid.TileCenter(t.X, t.Z, startWorld.Y))
	}
	return path, true
}

// FindTilePath is FindPath in tile space. The result includes start as its
// first element.
func (pf *Pathfinder) FindTilePath(start, goal Tile) ([]Tile, bool) {
	began := time.Now()
	stats := SearchStats{Start: start, Goal: goal}
	tiles := pf.search(start, goal, &stats)
	stats.Found = tiles != nil
	stats.Length = len(tiles)
	stats.Elapsed = time.Since(began)
	if pf.opts.Observer != nil {
		pf.opts.Observer(stats)
	}
	return tiles, tiles != nil
}

func (pf *Pathfinder) search(start, goal Tile, stats *SearchStats) []Tile {
	g := pf.grid
	if g == nil || !g.InBounds(start.X, start.Z) || !g.InBounds(goal.X, goal.Z) {
		return nil
	}
	if !g.IsWalkable(goal.X, goal.Z) {
		return nil
	}

	ps := &pf.scratch
	ps.prepare(g.width * g.height)

	startIdx := g.index(start.X, start.Z)
	goalIdx := g.index(goal.X, goal.Z)
	ps.gScore[startIdx] = 0
	ps.heap.push(gridNode{idx: startIdx, g: 0, f: pf.Heuristic(start, goal)})

	found := false
	for ps.heap.len() > 0 {
		current, _ := ps.heap.pop()
		if ps.closed[current.idx] || current.g > ps.gScore[current.idx] {
			continue
		}
		if current.idx == goalIdx {
			found = true
			break
		}
		ps.closed[current.idx] = true
		stats.Expanded++

		cx, cz := current.idx%g.width, current.idx/g.width
		g.eachNeighbor(cx, cz, pf.opts.Diagonal, pf.opts.PreventCornerCut, func(n Tile, diag bool) {
			nidx := g.index(n.X, n.Z)
			if ps.closed[nidx] {
				return
			}
			step := pf.opts.TileCost
			if diag {
				step = pf.opts.DiagonalCost
			}
			tentative := current.g + step
			if tentative < ps.gScore[nidx] {
				ps.gScore[nidx] = tentative
				ps.cameFrom[nidx] = current.idx
				ps.heap.push(gridNode{idx: nidx, g: tentative, f: tentative + pf.Heuristic(n, goal)})
			}
		})
	}
	if !found {
		return nil
	}
	return pf.reconstruct(startIdx, goalIdx)
}

// reconstruct walks cameFrom back from the goal. A chain that does not end at
// the start is treated as no path.
func (pf *Pathfinder) reconstruct(startIdx, goalIdx int) []Tile {
	g := pf.grid
	ps := &pf.scratch
	chain := make([]int, 0, 32)
	guard := g.width*g.height + 5
	for cur := goalIdx; cur >= 0 && guard > 0; guard-- {
		chain = append(chain, cur)
		if cur == startIdx {
			break
		}
		cur = ps.cameFrom[cur]
	}
	if len(chain) == 0 || chain[len(chain)-1] != startIdx {
		return nil
	}
	tiles := make([]Tile, len(chain))
	for i, idx := range chain {
		tiles[len(chain)-1-i] = Tile{X: idx % g.width, Z: idx / g.width}
	}
	return tiles
}
