package navigation

import (
	"math"

	"isominer/internal/mathutil"
)

// Tile is an integer grid coordinate. X runs along world X, Z along world Z.
type Tile struct {
	X int
	Z int
}

// TileGrid is the walkability bitmap for a fixed-size, flat world.
// World origin (0,0) is the corner of tile (0,0); tile (x,z) covers
// [x*tileSize, (x+1)*tileSize) on X and the same on Z.
//
// The grid is not synchronized. Mutate it from the frame loop only, and hand
// concurrent readers a Snapshot.
type TileGrid struct {
	width    int
	height   int
	tileSize float64
	walkable []bool
}

// NewTileGrid creates a fully walkable grid. Non-positive dimensions are
// raised to 1 and a non-positive tile size falls back to 1.
func NewTileGrid(width, height int, tileSize float64) *TileGrid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if tileSize <= 0 || math.IsNaN(tileSize) || math.IsInf(tileSize, 0) {
		tileSize = 1
	}
	g := &TileGrid{
		width:    width,
		height:   height,
		tileSize: tileSize,
		walkable: make([]bool, width*height),
	}
	for i := range g.walkable {
		g.walkable[i] = true
	}
	return g
}

func (g *TileGrid) Width() int { return g.width }

func (g *TileGrid) Height() int { return g.height }

func (g *TileGrid) TileSize() float64 { return g.tileSize }

// WorldSize returns the extent of the playable area in world units.
func (g *TileGrid) WorldSize() (x, z float64) {
	return float64(g.width) * g.tileSize, float64(g.height) * g.tileSize
}

func (g *TileGrid) index(x, z int) int {
	return z*g.width + x
}

// InBounds reports whether (x,z) addresses a tile of this grid.
func (g *TileGrid) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < g.width && z < g.height
}

// SetWalkable marks a tile. Out-of-bounds coordinates are ignored.
func (g *TileGrid) SetWalkable(x, z int, value bool) {
	if !g.InBounds(x, z) {
		return
	}
	g.walkable[g.index(x, z)] = value
}

// IsWalkable is false for blocked tiles and for anything outside the grid.
func (g *TileGrid) IsWalkable(x, z int) bool {
	return g.InBounds(x, z) && g.walkable[g.index(x, z)]
}

// WorldToTile floors a world point into tile space. The result is not
// clamped; use ClampTile before indexing.
func (g *TileGrid) WorldToTile(p mathutil.Vec3) Tile {
	return Tile{
		X: int(math.Floor(p.X / g.tileSize)),
		Z: int(math.Floor(p.Z / g.tileSize)),
	}
}

// ClampTile moves t to the nearest in-bounds tile.
func (g *TileGrid) ClampTile(t Tile) Tile {
	return Tile{
		X: mathutil.IntClamp(t.X, 0, g.width-1),
		Z: mathutil.IntClamp(t.Z, 0, g.height-1),
	}
}

// TileCenter returns the world-space center of tile (x,z) at height y.
func (g *TileGrid) TileCenter(x, z int, y float64) mathutil.Vec3 {
	return mathutil.Vec3{
		X: (float64(x) + 0.5) * g.tileSize,
		Y: y,
		Z: (float64(z) + 0.5) * g.tileSize,
	}
}

// ClampPoint keeps a world point inside the playable area; Y is untouched.
func (g *TileGrid) ClampPoint(p mathutil.Vec3) mathutil.Vec3 {
	maxX, maxZ := g.WorldSize()
	p.X = mathutil.Clamp(p.X, 0, maxX)
	p.Z = mathutil.Clamp(p.Z, 0, maxZ)
	return p
}

var orthogonalOffsets = [4]Tile{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Neighbors4 returns the walkable orthogonal neighbors of (x,z).
func (g *TileGrid) Neighbors4(x, z int) []Tile {
	out := make([]Tile, 0, 4)
	g.eachNeighbor(x, z, false, false, func(n Tile, _ bool) {
		out = append(out, n)
	})
	return out
}

// Neighbors8 returns the walkable neighbors of (x,z) including diagonals.
// With preventCornerCut a diagonal step (dx,dz) needs both (x+dx,z) and
// (x,z+dz) walkable.
func (g *TileGrid) Neighbors8(x, z int, preventCornerCut bool) []Tile {
	out := make([]Tile, 0, 8)
	g.eachNeighbor(x, z, true, preventCornerCut, func(n Tile, _ bool) {
		out = append(out, n)
	})
	return out
}

// eachNeighbor visits walkable neighbors in a fixed order so searches are
// reproducible.
func (g *TileGrid) eachNeighbor(x, z int, diagonal, preventCornerCut bool, fn func(n Tile, diag bool)) {
	if !diagonal {
		for _, d := range orthogonalOffsets {
			if g.IsWalkable(x+d.X, z+d.Z) {
				fn(Tile{X: x + d.X, Z: z + d.Z}, false)
			}
		}
		return
	}
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			nx, nz := x+dx, z+dz
			if !g.IsWalkable(nx, nz) {
				continue
			}
			diag := dx != 0 && dz != 0
			if diag && preventCornerCut {
				if !g.IsWalkable(x+dx, z) || !g.IsWalkable(x, z+dz) {
					continue
				}
			}
			fn(Tile{X: nx, Z: nz}, diag)
		}
	}
}

// WalkableCount returns how many tiles are currently walkable.
func (g *TileGrid) WalkableCount() int {
	n := 0
	for _, w := range g.walkable {
		if w {
			n++
		}
	}
	return n
}

// Snapshot copies the grid. The copy shares nothing with the original and is
// safe to read from many goroutines while the original keeps changing.
func (g *TileGrid) Snapshot() *TileGrid {
	cp := &TileGrid{
		width:    g.width,
		height:   g.height,
		tileSize: g.tileSize,
		walkable: make([]bool, len(g.walkable)),
	}
	copy(cp.walkable, g.walkable)
	return cp
}
