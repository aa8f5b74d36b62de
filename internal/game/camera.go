package game

import (
	"math"

	"isominer/internal/mathutil"
	"isominer/internal/navigation"
)

// TopDownCamera maps ground coordinates (x, z) to screen pixels. The map is
// drawn in the left part of the screen; the HUD panel sits to its right.
type TopDownCamera struct {
	OriginX, OriginY float64
	PixelsPerUnit    float64

	mapW, mapH float64
}

// NewTopDownCamera fits the grid into a viewport of viewW x viewH pixels,
// using at most pixelsPerTile per tile.
func NewTopDownCamera(grid *navigation.TileGrid, pixelsPerTile int, viewW, viewH int) *TopDownCamera {
	ppt := float64(pixelsPerTile)
	if fitW := float64(viewW) / float64(grid.Width()); fitW < ppt {
		ppt = fitW
	}
	if fitH := float64(viewH) / float64(grid.Height()); fitH < ppt {
		ppt = fitH
	}
	ppt = math.Max(1, math.Floor(ppt))

	return &TopDownCamera{
		PixelsPerUnit: ppt / grid.TileSize(),
		mapW:          ppt * float64(grid.Width()),
		mapH:          ppt * float64(grid.Height()),
	}
}

// GetMapSize returns the drawn map size in pixels.
func (c *TopDownCamera) GetMapSize() (float64, float64) {
	return c.mapW, c.mapH
}

// ToScreen returns the pixel position of a ground point.
func (c *TopDownCamera) ToScreen(p mathutil.Vec3) (float32, float32) {
	return float32(c.OriginX + p.X*c.PixelsPerUnit), float32(c.OriginY + p.Z*c.PixelsPerUnit)
}

// ToGround returns the ground point under a pixel, at height 0.
func (c *TopDownCamera) ToGround(sx, sy int) mathutil.Vec3 {
	return mathutil.Vec3{
		X: (float64(sx) - c.OriginX) / c.PixelsPerUnit,
		Z: (float64(sy) - c.OriginY) / c.PixelsPerUnit,
	}
}

// InMap reports whether a pixel lies over the drawn map.
func (c *TopDownCamera) InMap(sx, sy int) bool {
	x, y := float64(sx)-c.OriginX, float64(sy)-c.OriginY
	return x >= 0 && y >= 0 && x < c.mapW && y < c.mapH
}

// TileRect returns the pixel rectangle of a tile.
func (c *TopDownCamera) TileRect(grid *navigation.TileGrid, t navigation.Tile) (x, y, w, h float32) {
	size := grid.TileSize() * c.PixelsPerUnit
	return float32(c.OriginX + float64(t.X)*size), float32(c.OriginY + float64(t.Z)*size), float32(size), float32(size)
}
