package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all game configuration values
type Config struct {
	Display     DisplayConfig     `yaml:"display"`
	World       WorldConfig       `yaml:"world"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Movement    MovementConfig    `yaml:"movement"`
	Mining      MiningConfig      `yaml:"mining"`
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Objects     ObjectTypesConfig `yaml:"objects"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	TPS          int    `yaml:"tps"`
}

type WorldConfig struct {
	Width    int     `yaml:"width"`
	Depth    int     `yaml:"depth"`
	TileSize float64 `yaml:"tile_size"`
	SpawnX   *int    `yaml:"spawn_x"`
	SpawnZ   *int    `yaml:"spawn_z"`
	Layout   string  `yaml:"layout"`
	// Extra layouts offered by the map viewer.
	Layouts []string `yaml:"layouts"`
}

type PathfindingConfig struct {
	Diagonal         *bool   `yaml:"diagonal"`
	PreventCornerCut *bool   `yaml:"prevent_corner_cut"`
	TileCost         float64 `yaml:"tile_cost"`
	DiagonalCost     float64 `yaml:"diagonal_cost"`
}

type MovementConfig struct {
	Speed          float64 `yaml:"speed"`
	ArriveEpsilon  float64 `yaml:"arrive_epsilon"`
	TurnRate       float64 `yaml:"turn_rate"`
	StallTimeout   float64 `yaml:"stall_timeout"`
	StallDistance  float64 `yaml:"stall_distance"`
	MinMoveEpsilon float64 `yaml:"min_move_epsilon"`
}

type MiningConfig struct {
	MaxHealth     int     `yaml:"max_health"`
	RespawnDelay  float64 `yaml:"respawn_delay"`
	SwingInterval float64 `yaml:"swing_interval"`
	HitSfxAt      float64 `yaml:"hit_sfx_at"`
	YieldMin      int     `yaml:"yield_min"`
	YieldMax      int     `yaml:"yield_max"`
}

type GraphicsConfig struct {
	PixelsPerTile int           `yaml:"pixels_per_tile"`
	Colors        ColorsConfig  `yaml:"colors"`
	Overlay       OverlayConfig `yaml:"overlay"`
}

type ColorsConfig struct {
	Ground  [3]int `yaml:"ground"`
	Blocked [3]int `yaml:"blocked"`
	Path    [3]int `yaml:"path"`
	Miner   [3]int `yaml:"miner"`
	Hover   [3]int `yaml:"hover"`
}

type OverlayConfig struct {
	ShowGrid bool `yaml:"show_grid"`
}

// ObjectTypesConfig describes the object types a layout may place.
type ObjectTypesConfig struct {
	Types map[string]ObjectTypeData `yaml:"types"`
}

type ObjectTypeData struct {
	Name     string `yaml:"name"`
	Walkable bool   `yaml:"walkable"`
	Mineable bool   `yaml:"mineable"`
	Color    [3]int `yaml:"color"`
}

// LoadConfig loads the configuration from a yaml file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Default returns a config with no values set; every getter then yields its
// documented default.
func Default() *Config {
	return &Config{}
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func floatOr(v, def float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return intOr(c.Display.ScreenWidth, 960)
}

func (c *Config) GetScreenHeight() int {
	return intOr(c.Display.ScreenHeight, 720)
}

func (c *Config) GetWindowTitle() string {
	if c.Display.WindowTitle == "" {
		return "Isominer"
	}
	return c.Display.WindowTitle
}

func (c *Config) GetTPS() int {
	return intOr(c.Display.TPS, 60)
}

func (c *Config) GetWorldWidth() int {
	return intOr(c.World.Width, 30)
}

func (c *Config) GetWorldDepth() int {
	return intOr(c.World.Depth, 30)
}

func (c *Config) GetTileSize() float64 {
	return floatOr(c.World.TileSize, 1)
}

// GetSpawnTile returns the spawn tile; (2, 12) unless configured.
func (c *Config) GetSpawnTile() (int, int) {
	x, z := 2, 12
	if c.World.SpawnX != nil {
		x = *c.World.SpawnX
	}
	if c.World.SpawnZ != nil {
		z = *c.World.SpawnZ
	}
	return x, z
}

func (c *Config) GetLayoutFile() string {
	if c.World.Layout == "" {
		return "assets/world.yaml"
	}
	return c.World.Layout
}

// GetLayoutFiles returns the main layout followed by any extra layouts,
// without duplicates.
func (c *Config) GetLayoutFiles() []string {
	files := []string{c.GetLayoutFile()}
	seen := map[string]bool{files[0]: true}
	for _, f := range c.World.Layouts {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		files = append(files, f)
	}
	return files
}

func (c *Config) GetDiagonal() bool {
	if c.Pathfinding.Diagonal == nil {
		return true
	}
	return *c.Pathfinding.Diagonal
}

func (c *Config) GetPreventCornerCut() bool {
	if c.Pathfinding.PreventCornerCut == nil {
		return true
	}
	return *c.Pathfinding.PreventCornerCut
}

func (c *Config) GetTileCost() float64 {
	return floatOr(c.Pathfinding.TileCost, 1)
}

func (c *Config) GetDiagonalCost() float64 {
	return floatOr(c.Pathfinding.DiagonalCost, math.Sqrt2)
}

func (c *Config) GetMoveSpeed() float64 {
	return floatOr(c.Movement.Speed, 2.6)
}

func (c *Config) GetArriveEpsilon() float64 {
	return floatOr(c.Movement.ArriveEpsilon, 0.04)
}

func (c *Config) GetTurnRate() float64 {
	return floatOr(c.Movement.TurnRate, 12)
}

func (c *Config) GetStallTimeout() float64 {
	return floatOr(c.Movement.StallTimeout, 1.2)
}

func (c *Config) GetStallDistance() float64 {
	return floatOr(c.Movement.StallDistance, 0.02)
}

func (c *Config) GetMinMoveEpsilon() float64 {
	return floatOr(c.Movement.MinMoveEpsilon, 1e-4)
}

func (c *Config) GetOreMaxHealth() int {
	return intOr(c.Mining.MaxHealth, 3)
}

func (c *Config) GetOreRespawnDelay() float64 {
	return floatOr(c.Mining.RespawnDelay, 15)
}

func (c *Config) GetSwingInterval() float64 {
	return floatOr(c.Mining.SwingInterval, 2.0)
}

// GetHitSfxAt returns when in a swing the hit sound plays; it never exceeds
// the swing interval.
func (c *Config) GetHitSfxAt() float64 {
	return math.Min(floatOr(c.Mining.HitSfxAt, 1.8), c.GetSwingInterval())
}

// GetYieldRange returns the copper added per hit as an inclusive range.
func (c *Config) GetYieldRange() (int, int) {
	lo := intOr(c.Mining.YieldMin, 1)
	hi := intOr(c.Mining.YieldMax, 2)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func (c *Config) GetPixelsPerTile() int {
	return intOr(c.Graphics.PixelsPerTile, 24)
}

func (c *Config) GetShowGrid() bool {
	return c.Graphics.Overlay.ShowGrid
}

func colorOr(v, def [3]int) [3]int {
	if v == ([3]int{}) {
		return def
	}
	return v
}

func (c *Config) GetGroundColor() [3]int {
	return colorOr(c.Graphics.Colors.Ground, [3]int{58, 74, 52})
}

func (c *Config) GetBlockedColor() [3]int {
	return colorOr(c.Graphics.Colors.Blocked, [3]int{40, 40, 46})
}

func (c *Config) GetPathColor() [3]int {
	return colorOr(c.Graphics.Colors.Path, [3]int{230, 200, 90})
}

func (c *Config) GetMinerColor() [3]int {
	return colorOr(c.Graphics.Colors.Miner, [3]int{90, 160, 230})
}

func (c *Config) GetHoverColor() [3]int {
	return colorOr(c.Graphics.Colors.Hover, [3]int{255, 255, 255})
}

var defaultObjectTypes = map[string]ObjectTypeData{
	"copper_ore": {Name: "Copper Ore", Mineable: true, Color: [3]int{184, 115, 51}},
	"boulder":    {Name: "Boulder", Color: [3]int{110, 104, 98}},
}

// GetObjectType looks up a layout object type. copper_ore and boulder are
// always known.
func (c *Config) GetObjectType(key string) (ObjectTypeData, bool) {
	if data, ok := c.Objects.Types[key]; ok {
		return data, true
	}
	data, ok := defaultObjectTypes[key]
	return data, ok
}
