package game

import (
	"isominer/internal/game/keytracker"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputHandler handles all user input for the game
type InputHandler struct {
	game *MinerGame
	keys keytracker.KeyStateTracker

	// cursor and tapped report the mouse state. Nil means ebiten's.
	cursor func() (int, int)
	tapped func() bool
}

// NewInputHandler creates a new input handler
func NewInputHandler(game *MinerGame) *InputHandler {
	return &InputHandler{game: game}
}

// HandleInput processes all input for the current frame
func (ih *InputHandler) HandleInput() {
	ih.handleKeys()
	ih.handleMouse()
}

func (ih *InputHandler) handleKeys() {
	g := ih.game
	if ih.keys.IsKeyJustPressed(ebiten.KeyG) {
		g.showGrid = !g.showGrid
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyTab) {
		g.showStats = !g.showStats
	}
	// Dev commands on the hovered tile.
	if ih.keys.IsKeyJustPressed(ebiten.KeyP) && g.hoverOK {
		g.PlaceOreAt(g.hoverTile)
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyX) && g.hoverOK {
		g.RemoveOreAt(g.hoverTile)
	}
	if ih.keys.IsKeyJustPressed(ebiten.KeyEscape) && g.controller.IsFollowing() {
		g.controller.Cancel()
		g.target = nil
		g.AddMessage("Stopped")
	}
}

func (ih *InputHandler) handleMouse() {
	cursor, tapped := ih.cursor, ih.tapped
	if cursor == nil {
		cursor = ebiten.CursorPosition
	}
	if tapped == nil {
		tapped = func() bool { return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) }
	}

	g := ih.game
	mx, my := cursor()
	g.hoverOK = g.camera.InMap(mx, my)
	if g.hoverOK {
		g.hoverTile = g.world.Grid.WorldToTile(g.camera.ToGround(mx, my))
	}
	if tapped() {
		ih.Tap(mx, my)
	}
}

// Tap handles a tap at a screen position: tapping a visible ore walks to it
// and mines it, tapping the ground walks there. Taps off the map are
// ignored.
func (ih *InputHandler) Tap(sx, sy int) bool {
	g := ih.game
	if !g.camera.InMap(sx, sy) {
		return false
	}
	p := g.camera.ToGround(sx, sy)

	if ore, ok := g.world.PickOre(p); ok {
		if !ore.OnTapped(g.session) {
			g.AddMessage("Can't reach %s", ore.InteractionName())
			return false
		}
		stand := ore.StandPoint(g.miner.Position())
		g.target = &stand
		return true
	}

	t := g.world.Grid.ClampTile(g.world.Grid.WorldToTile(p))
	if !g.controller.MoveTo(p, nil) {
		g.AddMessage("No path to (%d, %d)", t.X, t.Z)
		return false
	}
	target := g.world.Grid.TileCenter(t.X, t.Z, 0)
	g.target = &target
	return true
}
