package world

import (
	"fmt"
	"log"

	"isominer/internal/config"
	"isominer/internal/mathutil"
	"isominer/internal/mining"
	"isominer/internal/navigation"
)

// World is a built layout: the walkability grid shared by the pathfinder,
// the spawn tile and the static objects on it.
type World struct {
	Name       string
	Grid       *navigation.TileGrid
	Pathfinder *navigation.Pathfinder
	Spawn      navigation.Tile

	ores      []*mining.OreNode
	oreByTile map[navigation.Tile]*mining.OreNode
	obstacles map[navigation.Tile]string

	config   *config.Config
	settings mining.Settings
	logger   *log.Logger
	nextID   int
}

// PathOptions builds pathfinder options from the config.
func PathOptions(cfg *config.Config) navigation.Options {
	return navigation.Options{
		Diagonal:         cfg.GetDiagonal(),
		PreventCornerCut: cfg.GetPreventCornerCut(),
		TileCost:         cfg.GetTileCost(),
		DiagonalCost:     cfg.GetDiagonalCost(),
	}
}

// NewWorld builds a world from a layout. Every object tile is marked
// unwalkable before the first search runs.
func NewWorld(cfg *config.Config, layout *Layout, logger *log.Logger) (*World, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := validateShape(layout); err != nil {
		return nil, err
	}
	loader := NewLayoutLoader(cfg, logger)
	placements, err := loader.placements(layout)
	if err != nil {
		return nil, err
	}

	grid := navigation.NewTileGrid(layout.Width, layout.Depth, layout.TileSize)
	w := &World{
		Name:       layout.Name,
		Grid:       grid,
		Pathfinder: navigation.NewPathfinder(grid, PathOptions(cfg)),
		oreByTile:  make(map[navigation.Tile]*mining.OreNode),
		obstacles:  make(map[navigation.Tile]string),
		config:     cfg,
		settings:   mining.SettingsFromConfig(cfg),
		logger:     logger,
	}

	sx, sz := cfg.GetSpawnTile()
	if layout.Spawn != nil {
		sx, sz = layout.Spawn.X, layout.Spawn.Z
	}
	if !grid.InBounds(sx, sz) {
		return nil, fmt.Errorf("%w: spawn (%d,%d) outside %dx%d", ErrTileOutOfBounds, sx, sz, layout.Width, layout.Depth)
	}
	w.Spawn = navigation.Tile{X: sx, Z: sz}

	for _, p := range placements {
		if p.Tile == w.Spawn {
			logger.Printf("Warning: layout %s places %s on the spawn tile, skipping it", layout.Name, p.Type)
			continue
		}
		if err := w.place(p); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *World) place(p Placement) error {
	data, ok := w.config.GetObjectType(p.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownObjectType, p.Type)
	}
	if data.Mineable {
		_, err := w.addOre(p.Type, p.Tile, p.Yaw)
		return err
	}
	w.obstacles[p.Tile] = p.Type
	if !data.Walkable {
		w.Grid.SetWalkable(p.Tile.X, p.Tile.Z, false)
	}
	return nil
}

func (w *World) addOre(kind string, tile navigation.Tile, yaw float64) (*mining.OreNode, error) {
	if !w.Grid.InBounds(tile.X, tile.Z) {
		return nil, fmt.Errorf("%w: ore at (%d,%d)", ErrTileOutOfBounds, tile.X, tile.Z)
	}
	if w.occupied(tile) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrTileOccupied, tile.X, tile.Z)
	}
	w.nextID++
	ore := mining.NewOreNode(w.nextID, kind, tile, yaw, w.Grid, w.settings)
	w.ores = append(w.ores, ore)
	w.oreByTile[tile] = ore
	w.Grid.SetWalkable(tile.X, tile.Z, false)
	return ore, nil
}

func (w *World) occupied(tile navigation.Tile) bool {
	if tile == w.Spawn {
		return true
	}
	if _, ok := w.oreByTile[tile]; ok {
		return true
	}
	_, ok := w.obstacles[tile]
	return ok
}

// PlaceOre adds a copper ore at (x, z) and blocks the tile.
func (w *World) PlaceOre(x, z int, yaw float64) (*mining.OreNode, error) {
	return w.addOre("copper_ore", navigation.Tile{X: x, Z: z}, yaw)
}

// RemoveOre deletes the ore at (x, z) and frees its tile. The caller must
// end any interaction the ore holds.
func (w *World) RemoveOre(x, z int) (*mining.OreNode, bool) {
	tile := navigation.Tile{X: x, Z: z}
	ore, ok := w.oreByTile[tile]
	if !ok {
		return nil, false
	}
	delete(w.oreByTile, tile)
	for i, o := range w.ores {
		if o == ore {
			w.ores = append(w.ores[:i], w.ores[i+1:]...)
			break
		}
	}
	w.Grid.SetWalkable(x, z, true)
	return ore, true
}

// Ores returns the ore nodes in placement order.
func (w *World) Ores() []*mining.OreNode { return w.ores }

// OreAt returns the ore on tile, if any.
func (w *World) OreAt(tile navigation.Tile) (*mining.OreNode, bool) {
	ore, ok := w.oreByTile[tile]
	return ore, ok
}

// ObstacleAt returns the non-ore object type on tile, if any.
func (w *World) ObstacleAt(tile navigation.Tile) (string, bool) {
	t, ok := w.obstacles[tile]
	return t, ok
}

// SpawnPoint is the world-space center of the spawn tile on the ground.
func (w *World) SpawnPoint() mathutil.Vec3 {
	return w.Grid.TileCenter(w.Spawn.X, w.Spawn.Z, 0)
}

// PickOre returns the visible ore under a ground point.
func (w *World) PickOre(p mathutil.Vec3) (*mining.OreNode, bool) {
	ore, ok := w.oreByTile[w.Grid.WorldToTile(p)]
	if !ok || !ore.Visible() {
		return nil, false
	}
	return ore, true
}

// UpdateOres advances every ore by dt.
func (w *World) UpdateOres(dt float64, s *mining.Session) {
	for _, ore := range w.ores {
		ore.Update(dt, s)
	}
}
