package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"isominer/internal/config"
	"isominer/internal/navigation"
	"isominer/internal/threading/core"
	"isominer/internal/world"
)

// Prints a layout as ASCII with the A* path from spawn (or -from) to a goal
// tile, plus ore reachability.
//
//	go run ./debug -layout assets/quarry.yaml -to 18,14
func main() {
	configPath := flag.String("config", "config.yaml", "config file")
	layoutPath := flag.String("layout", "", "layout file (default: config world.layout)")
	from := flag.String("from", "", "start tile x,z (default: spawn)")
	to := flag.String("to", "", "goal tile x,z")
	fourWay := flag.Bool("4", false, "orthogonal moves only")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Warning: %v; using defaults", err)
		cfg = config.Default()
	}
	if *layoutPath == "" {
		*layoutPath = cfg.GetLayoutFile()
	}

	layout, err := world.NewLayoutLoader(cfg, log.Default()).LoadLayout(*layoutPath)
	if err != nil {
		log.Fatalf("Failed to load layout: %v", err)
	}
	w, err := world.NewWorld(cfg, layout, log.Default())
	if err != nil {
		log.Fatalf("Failed to build world: %v", err)
	}

	start := w.Spawn
	if *from != "" {
		if start, err = parseTile(*from); err != nil {
			log.Fatalf("Bad -from: %v", err)
		}
	}

	opts := world.PathOptions(cfg)
	if *fourWay {
		opts.Diagonal = false
	}
	var stats navigation.SearchStats
	opts.Observer = func(s navigation.SearchStats) { stats = s }
	pf := navigation.NewPathfinder(w.Grid, opts)

	var path []navigation.Tile
	if *to != "" {
		goal, err := parseTile(*to)
		if err != nil {
			log.Fatalf("Bad -to: %v", err)
		}
		var ok bool
		path, ok = pf.FindTilePath(start, goal)
		if ok {
			cost := 0.0
			for i := 1; i < len(path); i++ {
				cost += pf.StepCost(path[i-1], path[i])
			}
			fmt.Printf("path %v -> %v: %d steps, cost %.3f, expanded %d, %v\n",
				start, goal, len(path)-1, cost, stats.Expanded, stats.Elapsed)
		} else {
			fmt.Printf("no path %v -> %v (expanded %d)\n", start, goal, stats.Expanded)
		}
	}

	fmt.Print(render(w, start, path))

	pool := core.CreateDefaultWorkerPool()
	defer pool.Stop()
	unreachable := w.Validate(context.Background(), pool)
	fmt.Printf("%s: %d ores, %d unreachable from spawn\n", w.Name, len(w.Ores()), len(unreachable))
	if len(unreachable) > 0 {
		os.Exit(1)
	}
}

func parseTile(s string) (navigation.Tile, error) {
	var t navigation.Tile
	if _, err := fmt.Sscanf(s, "%d,%d", &t.X, &t.Z); err != nil {
		return t, fmt.Errorf("%q is not x,z: %w", s, err)
	}
	return t, nil
}

// render draws one character per tile: '.' ground, '#' obstacle, 'o' ore,
// '+' spawn or start, '*' path, 'G' goal.
func render(w *world.World, start navigation.Tile, path []navigation.Tile) string {
	onPath := make(map[navigation.Tile]bool, len(path))
	for _, t := range path {
		onPath[t] = true
	}

	var sb strings.Builder
	for z := 0; z < w.Grid.Height(); z++ {
		for x := 0; x < w.Grid.Width(); x++ {
			t := navigation.Tile{X: x, Z: z}
			_, isOre := w.OreAt(t)
			switch {
			case t == start:
				sb.WriteByte('+')
			case len(path) > 0 && t == path[len(path)-1]:
				sb.WriteByte('G')
			case onPath[t]:
				sb.WriteByte('*')
			case isOre:
				sb.WriteByte('o')
			case !w.Grid.IsWalkable(x, z):
				sb.WriteByte('#')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
