package game

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"time"

	"isominer/internal/character"
	"isominer/internal/config"
	"isominer/internal/mathutil"
	"isominer/internal/mining"
	"isominer/internal/movement"
	"isominer/internal/navigation"
	"isominer/internal/threading"
	"isominer/internal/threading/monitoring"
	"isominer/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
)

// hudPanelWidth is the width of the HUD panel right of the map.
const hudPanelWidth = 240

// MinerGame is the ebiten.Game: one miner walking and mining on a world.
type MinerGame struct {
	config *config.Config
	world  *world.World
	logger *log.Logger

	miner      *character.Miner
	animator   *character.Animator
	controller *movement.Controller
	inventory  *mining.Inventory
	session    *mining.Session

	camera    *TopDownCamera
	threading *threading.ThreadingComponents
	monitor   *monitoring.PerformanceMonitor

	// UI state
	showGrid  bool
	showStats bool
	hoverTile navigation.Tile
	hoverOK   bool
	target    *mathutil.Vec3
	messages  []string

	dt       float64
	gameLoop *GameLoop

	perfLastAlertLog time.Time
}

// NewMinerGame places a miner on the world's spawn tile and wires the
// controller, animator, inventory and performance monitor together. A nil
// tc gets fresh threading components.
func NewMinerGame(cfg *config.Config, w *world.World, tc *threading.ThreadingComponents, logger *log.Logger) *MinerGame {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if tc == nil {
		tc = threading.NewThreadingComponents()
	}

	g := &MinerGame{
		config:    cfg,
		world:     w,
		logger:    logger,
		miner:     character.NewMiner("Miner", w.SpawnPoint()),
		animator:  character.NewAnimator(),
		inventory: mining.NewInventory(),
		threading: tc,
		monitor:   tc.PerformanceMonitor,
		showGrid:  cfg.GetShowGrid(),
		showStats: true,
		dt:        1 / float64(cfg.GetTPS()),
	}

	params := movement.Params{
		Speed:          cfg.GetMoveSpeed(),
		ArriveEpsilon:  cfg.GetArriveEpsilon(),
		TurnRate:       cfg.GetTurnRate(),
		StallTimeout:   cfg.GetStallTimeout(),
		StallDistance:  cfg.GetStallDistance(),
		MinMoveEpsilon: cfg.GetMinMoveEpsilon(),
	}
	w.Pathfinder.SetObserver(g.monitor.RecordSearch)
	g.controller = movement.NewController(g.miner, w.Pathfinder, g.animator, params)
	g.controller.SetLogger(logger)

	g.session = &mining.Session{
		Controller: g.controller,
		Miner:      g.miner,
		Animator:   g.animator,
		Inventory:  g.inventory,
		Sound:      mining.LogSoundPlayer{Logger: logger},
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:     logger,
	}

	viewW := cfg.GetScreenWidth() - hudPanelWidth
	g.camera = NewTopDownCamera(w.Grid, cfg.GetPixelsPerTile(), viewW, cfg.GetScreenHeight())
	g.gameLoop = NewGameLoop(g)
	return g
}

func (g *MinerGame) Update() error {
	return g.gameLoop.Update()
}

func (g *MinerGame) Draw(screen *ebiten.Image) {
	g.gameLoop.Draw(screen)
}

func (g *MinerGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.gameLoop.Layout(outsideWidth, outsideHeight)
}

// step advances the simulation by dt seconds: movement first, then the
// animator, then every ore.
func (g *MinerGame) step(dt float64) {
	g.controller.Tick(dt)
	g.animator.Update(dt)
	g.world.UpdateOres(dt, g.session)
	if !g.controller.IsFollowing() {
		g.target = nil
	}
}

// PlaceOreAt drops a copper ore on a free tile that is not under the miner.
func (g *MinerGame) PlaceOreAt(t navigation.Tile) bool {
	if g.world.Grid.WorldToTile(g.miner.Position()) == t {
		g.AddMessage("Can't place an ore under the miner")
		return false
	}
	ore, err := g.world.PlaceOre(t.X, t.Z, 0)
	if err != nil {
		g.AddMessage("Place failed: %v", err)
		return false
	}
	g.AddMessage("Placed %s at (%d, %d)", ore.InteractionName(), t.X, t.Z)
	return true
}

// RemoveOreAt deletes the ore on t, releasing the miner first if the ore
// holds it.
func (g *MinerGame) RemoveOreAt(t navigation.Tile) bool {
	ore, ok := g.world.OreAt(t)
	if !ok {
		return false
	}
	if g.controller.EndInteraction(ore) {
		g.animator.PlayIdle()
	}
	g.world.RemoveOre(t.X, t.Z)
	g.AddMessage("Removed %s", ore.InteractionName())
	return true
}

// AddMessage adds a message to the HUD log
func (g *MinerGame) AddMessage(format string, args ...interface{}) {
	const maxMessages = 6
	g.messages = append(g.messages, fmt.Sprintf(format, args...))
	if len(g.messages) > maxMessages {
		g.messages = g.messages[len(g.messages)-maxMessages:]
	}
}

func rgb(c [3]int) color.RGBA {
	return color.RGBA{uint8(c[0]), uint8(c[1]), uint8(c[2]), 255}
}
