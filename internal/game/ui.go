package game

import (
	"fmt"
	"image/color"

	"isominer/internal/character"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	panelColor   = color.RGBA{24, 26, 32, 255}
	headingColor = color.RGBA{235, 200, 120, 255}
	textColor    = color.RGBA{220, 220, 220, 255}
)

// UISystem draws the HUD panel to the right of the map.
type UISystem struct {
	game *MinerGame
}

// NewUISystem creates a new UI system
func NewUISystem(game *MinerGame) *UISystem {
	return &UISystem{game: game}
}

// Draw draws the HUD panel
func (ui *UISystem) Draw(screen *ebiten.Image) {
	g := ui.game
	mapW, _ := g.camera.GetMapSize()
	px := int(g.camera.OriginX+mapW) + 12
	panelW := float32(g.config.GetScreenWidth()) - float32(px-12)
	vector.DrawFilledRect(screen, float32(px-12), 0, panelW, float32(g.config.GetScreenHeight()), panelColor, false)

	y := ui.drawMinerInfo(screen, px, 20)
	y = ui.drawMessages(screen, px, y+16)
	if g.showStats {
		ui.drawPerformanceStats(screen, px, y+16)
	}
	ebitenutil.DebugPrintAt(screen, "Click: move / mine  G: grid  P/X: ore", px, g.config.GetScreenHeight()-44)
	ebitenutil.DebugPrintAt(screen, "Tab: stats  Esc: stop", px, g.config.GetScreenHeight()-28)
}

func (ui *UISystem) drawHeading(screen *ebiten.Image, s string, x, y int) {
	ebitext.Draw(screen, s, basicfont.Face7x13, x, y, headingColor)
}

func (ui *UISystem) drawMinerInfo(screen *ebiten.Image, x, y int) int {
	g := ui.game
	ui.drawHeading(screen, g.world.Name, x, y)
	y += 8

	lines := []string{
		g.miner.GetDisplayInfo(),
		"State: " + g.controller.State().String(),
		"Clip:  " + clipLabel(g.animator),
		"Bag:   " + g.inventory.String(),
	}
	if path := g.controller.Remaining(); len(path) > 0 {
		lines = append(lines, fmt.Sprintf("Path:  %d wp, cost %.2f", len(path), g.world.Pathfinder.Cost(g.miner.Position(), path)))
	}
	if g.hoverOK {
		lines = append(lines, fmt.Sprintf("Tile:  (%d, %d)", g.hoverTile.X, g.hoverTile.Z))
	}
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += 16
	}
	return y
}

// clipLabel names the active clip and, mid cross-fade, the clip fading out.
func clipLabel(a *character.Animator) string {
	cur, prev, w := a.Blend()
	if prev == character.ClipNone || w >= 1 {
		return cur.String()
	}
	return fmt.Sprintf("%s (%s %.0f%%)", cur, prev, (1-w)*100)
}

func (ui *UISystem) drawMessages(screen *ebiten.Image, x, y int) int {
	g := ui.game
	if len(g.messages) == 0 {
		return y
	}
	ui.drawHeading(screen, "Log", x, y)
	y += 8
	for _, m := range g.messages {
		ebitext.Draw(screen, m, basicfont.Face7x13, x, y+12, textColor)
		y += 16
	}
	return y
}

func (ui *UISystem) drawPerformanceStats(screen *ebiten.Image, x, y int) {
	m := ui.game.monitor.GetCurrentMetrics()
	ui.drawHeading(screen, "Performance", x, y)
	y += 8

	lines := []string{
		fmt.Sprintf("FPS: %.1f  TPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
		fmt.Sprintf("Tick: %.2fms  Draw: %.2fms", m.TickTimeMs, m.DrawTimeMs),
		fmt.Sprintf("Searches: %d (%d failed)", m.Searches, m.FailedSearches),
		fmt.Sprintf("Last: %d nodes, %.0fus", m.LastExpanded, m.LastSearchTimeUs),
		fmt.Sprintf("Avg search: %.0fus", m.AvgSearchTimeUs),
		fmt.Sprintf("Max expanded: %d", m.MaxExpanded),
		fmt.Sprintf("Stall skips: %d", ui.game.controller.StallSkips()),
		fmt.Sprintf("Pool jobs: %d", m.CompletedJobs),
		fmt.Sprintf("Mem: %dMB", m.MemoryUsageMB),
	}
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += 16
	}
}
