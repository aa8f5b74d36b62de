package main

import (
	"context"
	"log"

	"isominer/internal/config"
	"isominer/internal/game"
	"isominer/internal/threading"
	"isominer/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")
	logger := log.Default()

	// Load the world layout
	layout, err := world.NewLayoutLoader(cfg, logger).LoadLayout(cfg.GetLayoutFile())
	if err != nil {
		log.Fatalf("Failed to load layout: %v", err)
	}
	w, err := world.NewWorld(cfg, layout, logger)
	if err != nil {
		log.Fatalf("Failed to build world: %v", err)
	}

	tc := threading.NewThreadingComponents()
	defer tc.Shutdown()

	// Every ore should be reachable from spawn; unreachable ones are logged.
	if unreachable := w.Validate(context.Background(), tc.WorkerPool); len(unreachable) > 0 {
		log.Printf("Warning: %d of %d ores cannot be reached from spawn", len(unreachable), len(w.Ores()))
	}
	log.Printf("World %s validated on %d workers", w.Name, tc.WorkerPool.NumWorkers())
	tc.SyncWorkerMetrics()

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.GetWindowTitle())
	ebiten.SetTPS(cfg.GetTPS())
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := game.NewMinerGame(cfg, w, tc, logger)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
