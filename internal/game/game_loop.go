package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// GameLoop manages the main game update and render cycle
type GameLoop struct {
	game         *MinerGame
	inputHandler *InputHandler
	ui           *UISystem
	renderer     *Renderer
}

// NewGameLoop creates a new game loop manager
func NewGameLoop(game *MinerGame) *GameLoop {
	return &GameLoop{
		game:         game,
		inputHandler: NewInputHandler(game),
		ui:           NewUISystem(game),
		renderer:     NewRenderer(game),
	}
}

// Update handles all game logic updates for one frame. Input is handled
// before the tick so a tap issued this frame is acted on in the same frame.
func (gl *GameLoop) Update() error {
	frameTimer := gl.game.monitor.StartFrame()
	defer frameTimer.EndFrame()

	gl.inputHandler.HandleInput()

	gl.game.monitor.ProfiledFunction("tick", func() {
		gl.game.step(gl.game.dt)
	})

	gl.maybeLogPerfAlerts()
	return nil
}

// Draw renders the world and the HUD
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	gl.game.monitor.ProfiledFunction("draw", func() {
		gl.renderer.RenderFrame(screen)
		gl.ui.Draw(screen)
	})
}

// Layout returns the configured logical screen size
func (gl *GameLoop) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gl.game.config.GetScreenWidth(), gl.game.config.GetScreenHeight()
}
