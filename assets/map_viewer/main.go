package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"isominer/internal/config"
	"isominer/internal/mining"
	"isominer/internal/navigation"
	"isominer/internal/threading/core"
	"isominer/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
	padding      = 16
)

// probe is the start/goal pair the user clicked and the path between them.
type probe struct {
	start, goal       *navigation.Tile
	tiles             []navigation.Tile
	cost              float64
	expanded          int
	found, searched   bool
	diagonal, corners bool
}

type viewer struct {
	cfg         *config.Config
	manager     *world.WorldManager
	unreachable map[string][]*mining.OreNode
	probe       probe
	lastErr     string

	// map panel geometry from the last Draw
	originX, originY, tileSize int
}

func main() {
	ensureRuntimeCWD()

	cfg := config.MustLoadConfig("config.yaml")
	logger := log.Default()

	manager := world.NewWorldManager(cfg, logger)
	v := &viewer{
		cfg:         cfg,
		manager:     manager,
		unreachable: make(map[string][]*mining.OreNode),
		probe:       probe{diagonal: cfg.GetDiagonal(), corners: cfg.GetPreventCornerCut()},
	}
	if err := manager.LoadAllMaps(context.Background()); err != nil {
		log.Printf("Warning: %v", err)
		v.lastErr = err.Error()
	}

	pool := core.CreateDefaultWorkerPool()
	for _, key := range manager.GetAvailableMaps() {
		v.unreachable[key] = manager.LoadedMaps[key].Validate(context.Background(), pool)
	}
	pool.Stop()

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Isominer Map Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.manager.NextMap()
		v.resetProbe()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.manager.PrevMap()
		v.resetProbe()
	}
	if inpututil.IsKeyJustPressed(ebiten.Key8) {
		v.probe.diagonal = !v.probe.diagonal
		v.search()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.probe.corners = !v.probe.corners
		v.search()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.resetProbe()
	}

	w := v.manager.GetCurrentWorld()
	if w == nil || v.tileSize == 0 {
		return nil
	}
	mx, my := ebiten.CursorPosition()
	t, ok := v.tileAt(w, mx, my)
	if !ok {
		return nil
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		v.probe.start = &t
		v.search()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		v.probe.goal = &t
		v.search()
	}
	return nil
}

func (v *viewer) resetProbe() {
	v.probe = probe{diagonal: v.probe.diagonal, corners: v.probe.corners}
}

func (v *viewer) tileAt(w *world.World, mx, my int) (navigation.Tile, bool) {
	tx := (mx - v.originX) / v.tileSize
	tz := (my - v.originY) / v.tileSize
	if mx < v.originX || my < v.originY || !w.Grid.InBounds(tx, tz) {
		return navigation.Tile{}, false
	}
	return navigation.Tile{X: tx, Z: tz}, true
}

// search plans between the clicked tiles with the probe's own options so
// toggling diagonals never touches the world's pathfinder.
func (v *viewer) search() {
	p := &v.probe
	p.tiles, p.cost, p.expanded, p.found, p.searched = nil, 0, 0, false, false
	w := v.manager.GetCurrentWorld()
	if w == nil || p.start == nil || p.goal == nil {
		return
	}

	opts := world.PathOptions(v.cfg)
	opts.Diagonal = p.diagonal
	opts.PreventCornerCut = p.corners
	opts.Observer = func(s navigation.SearchStats) { p.expanded = s.Expanded }
	pf := navigation.NewPathfinder(w.Grid, opts)

	tiles, ok := pf.FindTilePath(*p.start, *p.goal)
	p.searched, p.found, p.tiles = true, ok, tiles
	for i := 1; i < len(tiles); i++ {
		p.cost += pf.StepCost(tiles[i-1], tiles[i])
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	w := v.manager.GetCurrentWorld()
	if w == nil {
		msg := v.lastErr
		if msg == "" {
			msg = "no maps loaded"
		}
		ebitenutil.DebugPrintAt(screen, msg, padding, padding)
		return
	}

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	sidebarX := padding + mapAreaW + padding

	v.drawMapPanel(screen, w, padding, padding, mapAreaW, mapAreaH)
	v.drawSidebar(screen, w, sidebarX, padding, sidebarWidth, mapAreaH)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) drawMapPanel(screen *ebiten.Image, w *world.World, x, y, pw, ph int) {
	drawFilledRect(screen, x, y, pw, ph, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, pw, ph, 2, color.RGBA{70, 70, 90, 255})

	gw, gh := w.Grid.Width(), w.Grid.Height()
	tileSize := (pw - 24) / gw
	if alt := (ph - 48) / gh; alt < tileSize {
		tileSize = alt
	}
	if tileSize < 2 {
		tileSize = 2
	}
	v.tileSize = tileSize
	v.originX = x + (pw-gw*tileSize)/2
	v.originY = y + 40 + (ph-40-gh*tileSize)/2

	ground := colorFromRGB(v.cfg.GetGroundColor(), 255)
	blocked := colorFromRGB(v.cfg.GetBlockedColor(), 255)
	for tz := 0; tz < gh; tz++ {
		for tx := 0; tx < gw; tx++ {
			c := ground
			if !w.Grid.IsWalkable(tx, tz) {
				c = blocked
				if kind, ok := w.ObstacleAt(navigation.Tile{X: tx, Z: tz}); ok {
					if data, ok := v.cfg.GetObjectType(kind); ok && data.Color != ([3]int{}) {
						c = colorFromRGB(data.Color, 255)
					}
				}
			}
			drawFilledRect(screen, v.originX+tx*tileSize, v.originY+tz*tileSize, tileSize-1, tileSize-1, c)
		}
	}

	v.drawOverlays(screen, w)
	drawMapHeader(screen, w, x, y)
}

func drawMapHeader(screen *ebiten.Image, w *world.World, x, y int) {
	ebitext.Draw(screen, fmt.Sprintf("%s (%dx%d)", w.Name, w.Grid.Width(), w.Grid.Height()), basicfont.Face7x13, x+12, y+18, color.White)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) switch maps, LMB start, RMB goal, Esc quit", x+12, y+22)
}

func (v *viewer) drawOverlays(screen *ebiten.Image, w *world.World) {
	unreachable := make(map[*mining.OreNode]bool)
	for _, ore := range v.unreachable[w.Name] {
		unreachable[ore] = true
	}
	for _, ore := range w.Ores() {
		clr := color.RGBA{184, 115, 51, 255}
		if data, ok := v.cfg.GetObjectType(ore.Kind); ok && data.Color != ([3]int{}) {
			clr = colorFromRGB(data.Color, 255)
		}
		v.drawTileMarkerCircle(screen, ore.Tile, clr, false)
		if unreachable[ore] {
			v.drawTileMarkerRect(screen, ore.Tile, color.RGBA{230, 60, 60, 255})
		}
	}

	// Spawn
	v.drawTileMarkerCircle(screen, w.Spawn, color.RGBA{50, 200, 255, 255}, true)

	p := v.probe
	pathColor := colorFromRGB(v.cfg.GetPathColor(), 255)
	half := float32(v.tileSize) / 2
	for i := 1; i < len(p.tiles); i++ {
		a, b := p.tiles[i-1], p.tiles[i]
		vector.StrokeLine(screen,
			float32(v.originX+a.X*v.tileSize)+half, float32(v.originY+a.Z*v.tileSize)+half,
			float32(v.originX+b.X*v.tileSize)+half, float32(v.originY+b.Z*v.tileSize)+half,
			2, pathColor, true)
	}
	if p.start != nil {
		v.drawTileMarkerRect(screen, *p.start, color.RGBA{80, 230, 120, 255})
	}
	if p.goal != nil {
		v.drawTileMarkerRect(screen, *p.goal, color.RGBA{240, 220, 80, 255})
	}
}

func (v *viewer) drawSidebar(screen *ebiten.Image, w *world.World, x, y, sw, sh int) {
	drawFilledRect(screen, x, y, sw, sh, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, sw, sh, 2, color.RGBA{70, 70, 90, 255})
	row := y + 12

	stats := []string{
		fmt.Sprintf("Map: %s", w.Name),
		fmt.Sprintf("Maps loaded: %d", len(v.manager.GetAvailableMaps())),
		fmt.Sprintf("Tiles: %dx%d  size %.2f", w.Grid.Width(), w.Grid.Height(), w.Grid.TileSize()),
		fmt.Sprintf("Walkable: %d", w.Grid.WalkableCount()),
		fmt.Sprintf("Spawn: (%d, %d)", w.Spawn.X, w.Spawn.Z),
		fmt.Sprintf("Ores: %d (%d unreachable)", len(w.Ores()), len(v.unreachable[w.Name])),
	}
	for _, line := range stats {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}

	row += 8
	ebitenutil.DebugPrintAt(screen, "Path probe:", x+12, row)
	row += 16
	p := v.probe
	lines := []string{
		fmt.Sprintf("Diagonal (8): %v", p.diagonal),
		fmt.Sprintf("No corner cut (C): %v", p.corners),
		"Start: " + tileLabel(p.start),
		"Goal:  " + tileLabel(p.goal),
	}
	switch {
	case !p.searched:
		lines = append(lines, "Click start and goal tiles")
	case p.found:
		lines = append(lines,
			fmt.Sprintf("Steps: %d", len(p.tiles)-1),
			fmt.Sprintf("Cost: %.3f", p.cost),
			fmt.Sprintf("Expanded: %d", p.expanded))
	default:
		lines = append(lines, "No path", fmt.Sprintf("Expanded: %d", p.expanded))
	}
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}

	row += 8
	ebitenutil.DebugPrintAt(screen, "Markers:", x+12, row)
	row += 16
	ebitenutil.DebugPrintAt(screen, "Cyan: spawn  Red box: unreachable", x+12, row)
	row += 16
	ebitenutil.DebugPrintAt(screen, "Green: start  Yellow: goal  R: reset", x+12, row)
}

func tileLabel(t *navigation.Tile) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("(%d, %d)", t.X, t.Z)
}

func (v *viewer) drawTileMarkerCircle(screen *ebiten.Image, t navigation.Tile, clr color.RGBA, stroke bool) {
	cx := float32(v.originX+t.X*v.tileSize) + float32(v.tileSize)/2
	cy := float32(v.originY+t.Z*v.tileSize) + float32(v.tileSize)/2
	r := float32(v.tileSize) * 0.35
	if stroke {
		vector.StrokeCircle(screen, cx, cy, r, 2, clr, true)
		return
	}
	vector.DrawFilledCircle(screen, cx, cy, r, clr, true)
}

func (v *viewer) drawTileMarkerRect(screen *ebiten.Image, t navigation.Tile, clr color.RGBA) {
	drawRectBorder(screen, v.originX+t.X*v.tileSize, v.originY+t.Z*v.tileSize, v.tileSize, v.tileSize, 2, clr)
}

func colorFromRGB(rgb [3]int, a uint8) color.RGBA {
	return color.RGBA{uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2]), a}
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(exe)
	_ = os.Chdir(execDir)
}
