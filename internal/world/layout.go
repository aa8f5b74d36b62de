package world

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"isominer/internal/config"
	"isominer/internal/navigation"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidDimensions = errors.New("invalid layout dimensions")
	ErrTileOutOfBounds   = errors.New("tile out of bounds")
	ErrUnknownObjectType = errors.New("unknown object type")
	ErrTileOccupied      = errors.New("tile occupied")
)

// Row symbols for the ascii part of a layout.
const (
	symbolGround  = '.'
	symbolBoulder = '#'
	symbolOre     = 'o'
	symbolSpawn   = '+'
)

// TileRef is a tile coordinate as written in layout files.
type TileRef struct {
	X int `yaml:"x"`
	Z int `yaml:"z"`
}

// ObjectSpec is one hand-placed object.
type ObjectSpec struct {
	Type string  `yaml:"type"`
	Yaw  float64 `yaml:"yaw"`
}

// Layout is a world description: dimensions, spawn and static objects. Objects
// come from the "x,z" keyed map, the optional ascii rows, or both.
type Layout struct {
	Name     string                  `yaml:"name"`
	Width    int                     `yaml:"width"`
	Depth    int                     `yaml:"depth"`
	TileSize float64                 `yaml:"tile_size"`
	Spawn    *TileRef                `yaml:"spawn"`
	Rows     []string                `yaml:"rows"`
	Objects  map[string][]ObjectSpec `yaml:"objects"`

	// Path the layout was read from, if any.
	Source string `yaml:"-"`
}

// Placement is a resolved object on a tile.
type Placement struct {
	Tile navigation.Tile
	Type string
	Yaw  float64
}

// LayoutLoader reads layout files and checks them against the object types
// known to the config.
type LayoutLoader struct {
	config *config.Config
	logger *log.Logger
}

func NewLayoutLoader(cfg *config.Config, logger *log.Logger) *LayoutLoader {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LayoutLoader{config: cfg, logger: logger}
}

// LoadLayout reads and validates a layout file.
func (ll *LayoutLoader) LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}
	layout, err := ll.ParseLayout(data)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	layout.Source = path
	if layout.Name == "" {
		layout.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return layout, nil
}

// ParseLayout decodes yaml layout data. Missing dimensions fall back to the
// config world size; explicit rows fix the size instead.
func (ll *LayoutLoader) ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if len(layout.Rows) > 0 {
		if layout.Width == 0 {
			layout.Width = len(layout.Rows[0])
		}
		if layout.Depth == 0 {
			layout.Depth = len(layout.Rows)
		}
	}
	if layout.Width == 0 {
		layout.Width = ll.config.GetWorldWidth()
	}
	if layout.Depth == 0 {
		layout.Depth = ll.config.GetWorldDepth()
	}
	if layout.TileSize == 0 {
		layout.TileSize = ll.config.GetTileSize()
	}
	if err := ll.validate(&layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

// validate checks shape and objects without logging; warnings are reported
// once, when the world is built.
func (ll *LayoutLoader) validate(layout *Layout) error {
	if err := validateShape(layout); err != nil {
		return err
	}
	quiet := &LayoutLoader{config: ll.config, logger: log.New(io.Discard, "", 0)}
	_, err := quiet.placements(layout)
	return err
}

func validateShape(layout *Layout) error {
	if layout.Width <= 0 || layout.Depth <= 0 || layout.TileSize <= 0 {
		return fmt.Errorf("%w: %dx%d tile size %g", ErrInvalidDimensions, layout.Width, layout.Depth, layout.TileSize)
	}
	if len(layout.Rows) > 0 {
		if len(layout.Rows) != layout.Depth {
			return fmt.Errorf("%w: %d rows for depth %d", ErrInvalidDimensions, len(layout.Rows), layout.Depth)
		}
		for i, row := range layout.Rows {
			if len(row) != layout.Width {
				return fmt.Errorf("%w: row %d has width %d, expected %d", ErrInvalidDimensions, i+1, len(row), layout.Width)
			}
		}
	}
	if layout.Spawn != nil && !layout.inBounds(layout.Spawn.X, layout.Spawn.Z) {
		return fmt.Errorf("%w: spawn (%d,%d)", ErrTileOutOfBounds, layout.Spawn.X, layout.Spawn.Z)
	}
	return nil
}

func (l *Layout) inBounds(x, z int) bool {
	return x >= 0 && x < l.Width && z >= 0 && z < l.Depth
}

// parseTileKey parses an "x,z" object key.
func parseTileKey(key string) (navigation.Tile, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 2 {
		return navigation.Tile{}, fmt.Errorf("bad tile key %q", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return navigation.Tile{}, fmt.Errorf("bad tile key %q: %w", key, err)
	}
	z, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return navigation.Tile{}, fmt.Errorf("bad tile key %q: %w", key, err)
	}
	return navigation.Tile{X: x, Z: z}, nil
}

// normalizeType accepts both copper_ore and copper-ore spellings.
func normalizeType(t string) string {
	return strings.ReplaceAll(strings.TrimSpace(t), "-", "_")
}

// Placements resolves every object in the layout, sorted by row then column.
// Only the first object on a tile is kept.
func (ll *LayoutLoader) Placements(layout *Layout) ([]Placement, error) {
	return ll.placements(layout)
}

func (ll *LayoutLoader) placements(layout *Layout) ([]Placement, error) {
	byTile := make(map[navigation.Tile]Placement)

	add := func(p Placement) error {
		if !layout.inBounds(p.Tile.X, p.Tile.Z) {
			return fmt.Errorf("%w: object at (%d,%d)", ErrTileOutOfBounds, p.Tile.X, p.Tile.Z)
		}
		if _, ok := ll.config.GetObjectType(p.Type); !ok {
			return fmt.Errorf("%w: %q at (%d,%d)", ErrUnknownObjectType, p.Type, p.Tile.X, p.Tile.Z)
		}
		if _, dup := byTile[p.Tile]; dup {
			ll.logger.Printf("Warning: layout %s has more than one object on (%d,%d), keeping the first", layout.Name, p.Tile.X, p.Tile.Z)
			return nil
		}
		byTile[p.Tile] = p
		return nil
	}

	for z, row := range layout.Rows {
		for x, ch := range row {
			var typ string
			switch ch {
			case symbolGround:
				continue
			case symbolSpawn:
				if layout.Spawn == nil {
					layout.Spawn = &TileRef{X: x, Z: z}
				}
				continue
			case symbolBoulder:
				typ = "boulder"
			case symbolOre:
				typ = "copper_ore"
			default:
				return nil, fmt.Errorf("%w: symbol %q at (%d,%d)", ErrUnknownObjectType, ch, x, z)
			}
			if err := add(Placement{Tile: navigation.Tile{X: x, Z: z}, Type: typ}); err != nil {
				return nil, err
			}
		}
	}

	keys := make([]string, 0, len(layout.Objects))
	for k := range layout.Objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		tile, err := parseTileKey(key)
		if err != nil {
			return nil, err
		}
		for _, obj := range layout.Objects[key] {
			if err := add(Placement{Tile: tile, Type: normalizeType(obj.Type), Yaw: obj.Yaw}); err != nil {
				return nil, err
			}
		}
	}

	out := make([]Placement, 0, len(byTile))
	for _, p := range byTile {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tile.Z != out[j].Tile.Z {
			return out[i].Tile.Z < out[j].Tile.Z
		}
		return out[i].Tile.X < out[j].Tile.X
	})
	return out, nil
}
