package world

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"isominer/internal/config"
	"isominer/internal/mathutil"
	"isominer/internal/movement"
	"isominer/internal/navigation"
	"isominer/internal/threading/core"
)

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func writeLayout(t *testing.T, body string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "layout-*.yaml")
	if err != nil {
		t.Fatalf("create temp layout: %v", err)
	}
	if _, err := f.WriteString(body); err != nil {
		t.Fatalf("write temp layout: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp layout: %v", err)
	}
	return f.Name()
}

func loadWorld(t *testing.T, path string) *World {
	t.Helper()
	loader := NewLayoutLoader(config.Default(), quietLogger())
	layout, err := loader.LoadLayout(path)
	if err != nil {
		t.Fatalf("load layout: %v", err)
	}
	w, err := NewWorld(config.Default(), layout, quietLogger())
	if err != nil {
		t.Fatalf("build world: %v", err)
	}
	return w
}

func startedPool(t *testing.T) *core.WorkerPool {
	t.Helper()
	pool := core.NewWorkerPool(4)
	pool.Start()
	t.Cleanup(pool.Stop)
	return pool
}

func TestDefaultWorldLayout(t *testing.T) {
	w := loadWorld(t, filepath.Join("..", "..", "assets", "world.yaml"))

	if w.Grid.Width() != 30 || w.Grid.Height() != 30 || w.Grid.TileSize() != 1 {
		t.Fatalf("expected 30x30 world of unit tiles, got %dx%d size %f", w.Grid.Width(), w.Grid.Height(), w.Grid.TileSize())
	}
	if w.Spawn != (navigation.Tile{X: 2, Z: 12}) {
		t.Errorf("expected spawn (2,12), got %v", w.Spawn)
	}
	if got := len(w.Ores()); got != 6 {
		t.Fatalf("expected 6 ores, got %d", got)
	}
	for _, ore := range w.Ores() {
		if w.Grid.IsWalkable(ore.Tile.X, ore.Tile.Z) {
			t.Errorf("ore tile %v should be blocked", ore.Tile)
		}
	}
	if w.Grid.WalkableCount() != 30*30-6 {
		t.Errorf("only ore tiles should be blocked, %d walkable", w.Grid.WalkableCount())
	}
	ore, ok := w.OreAt(navigation.Tile{X: 14, Z: 12})
	if !ok || ore.Yaw != 0.55 {
		t.Errorf("expected ore at (14,12) with yaw 0.55, got %v %v", ore, ok)
	}
	if bad := w.Validate(context.Background(), startedPool(t)); len(bad) != 0 {
		t.Errorf("every ore should be reachable, got %d unreachable", len(bad))
	}
}

func TestAsciiLayoutAndUnreachableOre(t *testing.T) {
	w := loadWorld(t, filepath.Join("..", "..", "assets", "quarry.yaml"))

	if w.Grid.Width() != 20 || w.Grid.Height() != 16 {
		t.Fatalf("rows should size the grid, got %dx%d", w.Grid.Width(), w.Grid.Height())
	}
	if w.Spawn != (navigation.Tile{X: 1, Z: 1}) {
		t.Errorf("expected spawn from the + symbol at (1,1), got %v", w.Spawn)
	}
	if kind, ok := w.ObstacleAt(navigation.Tile{X: 6, Z: 3}); !ok || kind != "boulder" {
		t.Errorf("expected boulder at (6,3), got %q %v", kind, ok)
	}
	if w.Grid.IsWalkable(6, 3) {
		t.Errorf("boulders block their tile")
	}
	if got := len(w.Ores()); got != 8 {
		t.Errorf("expected 8 ores, got %d", got)
	}

	bad := w.Validate(context.Background(), startedPool(t))
	if len(bad) != 1 || bad[0].Tile != (navigation.Tile{X: 16, Z: 14}) {
		t.Fatalf("expected only the walled-in ore at (16,14) to be unreachable, got %v", bad)
	}
}

func TestLayoutErrors(t *testing.T) {
	loader := NewLayoutLoader(config.Default(), quietLogger())
	cases := []struct {
		name string
		body string
		want error
	}{
		{"negative width", "width: -3\ndepth: 4\n", ErrInvalidDimensions},
		{"ragged rows", "rows:\n  - \"...\"\n  - \"..\"\n", ErrInvalidDimensions},
		{"object outside", "width: 4\ndepth: 4\nobjects:\n  \"4,1\": [ { type: copper_ore } ]\n", ErrTileOutOfBounds},
		{"spawn outside", "width: 4\ndepth: 4\nspawn: { x: 9, z: 0 }\n", ErrTileOutOfBounds},
		{"unknown type", "width: 4\ndepth: 4\nobjects:\n  \"1,1\": [ { type: dragon } ]\n", ErrUnknownObjectType},
		{"unknown symbol", "rows:\n  - \"..?\"\n", ErrUnknownObjectType},
	}
	for _, tc := range cases {
		_, err := loader.LoadLayout(writeLayout(t, tc.body))
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if _, err := loader.LoadLayout(writeLayout(t, "objects:\n  \"a,b\": []\n")); err == nil {
		t.Errorf("malformed tile key should fail")
	}
	if _, err := loader.LoadLayout("missing.yaml"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLayoutDefaultsFromConfig(t *testing.T) {
	loader := NewLayoutLoader(config.Default(), quietLogger())
	layout, err := loader.LoadLayout(writeLayout(t, "objects:\n  \"3,3\": [ { type: copper-ore, yaw: 1.5 } ]\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if layout.Width != 30 || layout.Depth != 30 || layout.TileSize != 1 {
		t.Errorf("expected config world size, got %dx%d size %f", layout.Width, layout.Depth, layout.TileSize)
	}
	ps, err := loader.Placements(layout)
	if err != nil || len(ps) != 1 || ps[0].Type != "copper_ore" || ps[0].Yaw != 1.5 {
		t.Errorf("dashed type name should be accepted, got %v %v", ps, err)
	}
}

func TestObjectOnSpawnIsSkipped(t *testing.T) {
	layout := &Layout{
		Name: "t", Width: 5, Depth: 5, TileSize: 1,
		Spawn:   &TileRef{X: 1, Z: 1},
		Objects: map[string][]ObjectSpec{"1,1": {{Type: "copper_ore"}}},
	}
	w, err := NewWorld(config.Default(), layout, quietLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(w.Ores()) != 0 || !w.Grid.IsWalkable(1, 1) {
		t.Errorf("spawn tile must stay free")
	}
}

func TestPlaceAndRemoveOre(t *testing.T) {
	w, err := NewWorld(config.Default(), &Layout{Name: "t", Width: 6, Depth: 6, TileSize: 1, Spawn: &TileRef{}}, quietLogger())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ore, err := w.PlaceOre(3, 3, 0.2)
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if w.Grid.IsWalkable(3, 3) {
		t.Errorf("placed ore must block its tile")
	}
	if _, err := w.PlaceOre(3, 3, 0); !errors.Is(err, ErrTileOccupied) {
		t.Errorf("expected ErrTileOccupied, got %v", err)
	}
	if _, err := w.PlaceOre(0, 0, 0); !errors.Is(err, ErrTileOccupied) {
		t.Errorf("spawn tile should count as occupied, got %v", err)
	}
	if _, err := w.PlaceOre(9, 0, 0); !errors.Is(err, ErrTileOutOfBounds) {
		t.Errorf("expected ErrTileOutOfBounds, got %v", err)
	}
	if got, ok := w.PickOre(mathutil.Vec3{X: 3.7, Z: 3.2}); !ok || got != ore {
		t.Errorf("expected to pick the placed ore")
	}

	removed, ok := w.RemoveOre(3, 3)
	if !ok || removed != ore {
		t.Fatalf("expected to remove the placed ore")
	}
	if !w.Grid.IsWalkable(3, 3) || len(w.Ores()) != 0 {
		t.Errorf("removal should free the tile")
	}
	if _, ok := w.RemoveOre(3, 3); ok {
		t.Errorf("second removal should report nothing removed")
	}
}

func TestWalkToOreStandTile(t *testing.T) {
	w := loadWorld(t, filepath.Join("..", "..", "assets", "world.yaml"))
	body := &actor{pos: w.SpawnPoint()}
	ctrl := movement.NewController(body, w.Pathfinder, nil, movement.DefaultParams())

	ore, _ := w.OreAt(navigation.Tile{X: 12, Z: 12})
	stand := ore.StandPoint(body.pos)
	arrived := false
	if !ctrl.MoveTo(stand, func() { arrived = true }) {
		t.Fatalf("no path from spawn to the ore")
	}
	for i := 0; i < 3000 && !arrived; i++ {
		ctrl.Tick(1.0 / 60)
		if !w.Grid.IsWalkable(w.Grid.WorldToTile(body.pos).X, w.Grid.WorldToTile(body.pos).Z) {
			t.Fatalf("walked onto a blocked tile at %+v", body.pos)
		}
	}
	if !arrived {
		t.Fatalf("never reached the stand tile")
	}
	if got := w.Grid.WorldToTile(body.pos); got != (navigation.Tile{X: 11, Z: 12}) {
		t.Errorf("expected to stand on (11,12), got %v", got)
	}
}

type actor struct {
	pos mathutil.Vec3
	yaw float64
}

func (a *actor) Position() mathutil.Vec3     { return a.pos }
func (a *actor) SetPosition(p mathutil.Vec3) { a.pos = p }
func (a *actor) Yaw() float64                { return a.yaw }
func (a *actor) SetYaw(y float64)            { a.yaw = y }

func TestLoadLayoutsKeepsOrder(t *testing.T) {
	a := writeLayout(t, "name: a\nwidth: 4\ndepth: 4\n")
	b := writeLayout(t, "name: b\nwidth: 5\ndepth: 5\n")
	loader := NewLayoutLoader(config.Default(), quietLogger())

	layouts, err := LoadLayouts(context.Background(), loader, []string{b, a})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if layouts[0].Name != "b" || layouts[1].Name != "a" {
		t.Errorf("results out of order: %s, %s", layouts[0].Name, layouts[1].Name)
	}

	if _, err := LoadLayouts(context.Background(), loader, []string{a, "missing.yaml"}); err == nil {
		t.Errorf("a missing file should fail the batch")
	}
}

func TestWorldManagerCycles(t *testing.T) {
	a := writeLayout(t, "name: a\nwidth: 4\ndepth: 4\nspawn: { x: 0, z: 0 }\n")
	b := writeLayout(t, "name: b\nwidth: 5\ndepth: 5\nspawn: { x: 0, z: 0 }\n")
	bad := writeLayout(t, "name: c\nwidth: 3\ndepth: 3\n")

	wm := NewWorldManager(config.Default(), quietLogger())
	if err := wm.LoadMaps(context.Background(), []string{a, b, bad}); err != nil {
		t.Fatalf("load maps: %v", err)
	}
	// c uses the default spawn (2,12), outside its 3x3 grid.
	if got := wm.GetAvailableMaps(); len(got) != 2 {
		t.Fatalf("expected 2 maps, got %v", got)
	}
	if wm.GetCurrentWorld().Name != "a" {
		t.Errorf("first loaded map should be current")
	}
	if wm.NextMap() != "b" || wm.NextMap() != "a" {
		t.Errorf("NextMap should cycle a -> b -> a")
	}
	if wm.PrevMap() != "b" || wm.PrevMap() != "a" {
		t.Errorf("PrevMap should cycle a -> b -> a backwards")
	}
	if err := wm.SwitchToMap("nope"); err == nil {
		t.Errorf("switching to an unknown map should fail")
	}
}
