package game

import (
	"image/color"

	"isominer/internal/mining"
	"isominer/internal/navigation"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	gridLineColor  = color.RGBA{0, 0, 0, 60}
	depletedColor  = color.RGBA{80, 70, 60, 255}
	targetColor    = color.RGBA{255, 230, 120, 200}
	minerEdgeColor = color.RGBA{20, 30, 50, 255}
)

// Renderer draws the top-down map: tiles, objects, the planned path and the
// miner.
type Renderer struct {
	game *MinerGame
}

// NewRenderer creates a new renderer
func NewRenderer(game *MinerGame) *Renderer {
	return &Renderer{game: game}
}

// RenderFrame draws the whole map view
func (r *Renderer) RenderFrame(screen *ebiten.Image) {
	r.drawTiles(screen)
	r.drawOres(screen)
	if r.game.showGrid {
		r.drawGrid(screen)
	}
	r.drawPath(screen)
	r.drawMiner(screen)
	r.drawHover(screen)
}

func (r *Renderer) drawTiles(screen *ebiten.Image) {
	g := r.game
	grid := g.world.Grid
	mapW, mapH := g.camera.GetMapSize()
	vector.DrawFilledRect(screen, float32(g.camera.OriginX), float32(g.camera.OriginY), float32(mapW), float32(mapH), rgb(g.config.GetGroundColor()), false)

	blocked := rgb(g.config.GetBlockedColor())
	for z := 0; z < grid.Height(); z++ {
		for x := 0; x < grid.Width(); x++ {
			t := navigation.Tile{X: x, Z: z}
			if grid.IsWalkable(x, z) {
				continue
			}
			if _, isOre := g.world.OreAt(t); isOre {
				continue
			}
			c := blocked
			if kind, ok := g.world.ObstacleAt(t); ok {
				if data, ok := g.config.GetObjectType(kind); ok && data.Color != ([3]int{}) {
					c = rgb(data.Color)
				}
			}
			tx, ty, tw, th := g.camera.TileRect(grid, t)
			vector.DrawFilledRect(screen, tx, ty, tw, th, c, false)
		}
	}
}

func (r *Renderer) drawOres(screen *ebiten.Image) {
	g := r.game
	for _, ore := range g.world.Ores() {
		tx, ty, tw, th := g.camera.TileRect(g.world.Grid, ore.Tile)
		if !ore.Visible() {
			vector.StrokeRect(screen, tx+tw*0.3, ty+th*0.3, tw*0.4, th*0.4, 1, depletedColor, false)
			continue
		}
		vector.DrawFilledRect(screen, tx+1, ty+1, tw-2, th-2, r.oreColor(ore), false)
		if ore.IsMinedBy(g.session) {
			vector.StrokeRect(screen, tx, ty, tw, th, 2, targetColor, false)
		}
		// Health pips along the bottom edge.
		pip := (tw - 2) / float32(ore.MaxHealth())
		for i := 0; i < ore.Health(); i++ {
			vector.DrawFilledRect(screen, tx+1+float32(i)*pip, ty+th-4, pip-1, 3, targetColor, false)
		}
	}
}

func (r *Renderer) oreColor(ore *mining.OreNode) color.RGBA {
	data, ok := r.game.config.GetObjectType(ore.Kind)
	if !ok || data.Color == ([3]int{}) {
		return rgb(r.game.config.GetBlockedColor())
	}
	return rgb(data.Color)
}

func (r *Renderer) drawGrid(screen *ebiten.Image) {
	g := r.game
	grid := g.world.Grid
	mapW, mapH := g.camera.GetMapSize()
	ox, oy := float32(g.camera.OriginX), float32(g.camera.OriginY)
	size := float32(grid.TileSize() * g.camera.PixelsPerUnit)
	for x := 0; x <= grid.Width(); x++ {
		px := ox + float32(x)*size
		vector.StrokeLine(screen, px, oy, px, oy+float32(mapH), 1, gridLineColor, false)
	}
	for z := 0; z <= grid.Height(); z++ {
		py := oy + float32(z)*size
		vector.StrokeLine(screen, ox, py, ox+float32(mapW), py, 1, gridLineColor, false)
	}
}

func (r *Renderer) drawPath(screen *ebiten.Image) {
	g := r.game
	pathColor := rgb(g.config.GetPathColor())
	prevX, prevY := g.camera.ToScreen(g.miner.Position())
	for _, wp := range g.controller.Remaining() {
		x, y := g.camera.ToScreen(wp)
		vector.StrokeLine(screen, prevX, prevY, x, y, 2, pathColor, true)
		vector.DrawFilledCircle(screen, x, y, 2.5, pathColor, true)
		prevX, prevY = x, y
	}
	if g.target != nil {
		x, y := g.camera.ToScreen(*g.target)
		vector.StrokeCircle(screen, x, y, float32(g.camera.PixelsPerUnit*0.3), 2, targetColor, true)
	}
}

func (r *Renderer) drawMiner(screen *ebiten.Image) {
	g := r.game
	x, y := g.camera.ToScreen(g.miner.Position())
	radius := float32(g.camera.PixelsPerUnit * 0.32)
	vector.DrawFilledCircle(screen, x, y, radius, rgb(g.config.GetMinerColor()), true)
	vector.StrokeCircle(screen, x, y, radius, 1.5, minerEdgeColor, true)

	h := g.miner.Heading()
	hx := x + float32(h.X)*radius*1.6
	hy := y + float32(h.Z)*radius*1.6
	vector.StrokeLine(screen, x, y, hx, hy, 2, minerEdgeColor, true)
}

func (r *Renderer) drawHover(screen *ebiten.Image) {
	g := r.game
	if !g.hoverOK {
		return
	}
	tx, ty, tw, th := g.camera.TileRect(g.world.Grid, g.hoverTile)
	vector.StrokeRect(screen, tx, ty, tw, th, 1, rgb(g.config.GetHoverColor()), false)
}
