package world

import (
	"context"
	"fmt"
	"log"

	"isominer/internal/config"

	"golang.org/x/sync/errgroup"
)

// LoadLayouts reads every path concurrently. Results keep the order of
// paths; the first failure cancels the remaining reads and is returned.
func LoadLayouts(ctx context.Context, loader *LayoutLoader, paths []string) ([]*Layout, error) {
	layouts := make([]*Layout, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			layout, err := loader.LoadLayout(path)
			if err != nil {
				return err
			}
			layouts[i] = layout
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return layouts, nil
}

// WorldManager holds every built layout and which one is current. The map
// viewer cycles through them.
type WorldManager struct {
	CurrentMapKey string
	LoadedMaps    map[string]*World

	order  []string
	config *config.Config
	logger *log.Logger
}

// NewWorldManager creates an empty world manager
func NewWorldManager(cfg *config.Config, logger *log.Logger) *WorldManager {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &WorldManager{
		LoadedMaps: make(map[string]*World),
		config:     cfg,
		logger:     logger,
	}
}

// LoadAllMaps loads and builds every layout the config lists. A layout that
// fails to build is skipped with a warning; the call fails only when nothing
// could be loaded.
func (wm *WorldManager) LoadAllMaps(ctx context.Context) error {
	return wm.LoadMaps(ctx, wm.config.GetLayoutFiles())
}

// LoadMaps is LoadAllMaps for an explicit file list.
func (wm *WorldManager) LoadMaps(ctx context.Context, paths []string) error {
	loader := NewLayoutLoader(wm.config, wm.logger)
	layouts, err := LoadLayouts(ctx, loader, paths)
	if err != nil {
		return err
	}
	for _, layout := range layouts {
		w, err := NewWorld(wm.config, layout, wm.logger)
		if err != nil {
			wm.logger.Printf("Warning: Failed to build map %s: %v", layout.Name, err)
			continue
		}
		wm.Add(w)
	}
	if len(wm.order) == 0 {
		return fmt.Errorf("no maps could be built from %d layouts", len(paths))
	}
	return nil
}

// Add registers a world under its name, replacing any previous one. The
// first world added becomes current.
func (wm *WorldManager) Add(w *World) {
	if _, ok := wm.LoadedMaps[w.Name]; !ok {
		wm.order = append(wm.order, w.Name)
	}
	wm.LoadedMaps[w.Name] = w
	if wm.CurrentMapKey == "" {
		wm.CurrentMapKey = w.Name
	}
}

// GetCurrentWorld returns the current world, or nil when none is loaded.
func (wm *WorldManager) GetCurrentWorld() *World {
	return wm.LoadedMaps[wm.CurrentMapKey]
}

// SwitchToMap makes mapKey current.
func (wm *WorldManager) SwitchToMap(mapKey string) error {
	if !wm.IsValidMap(mapKey) {
		return fmt.Errorf("map %s is not loaded", mapKey)
	}
	wm.CurrentMapKey = mapKey
	return nil
}

// NextMap cycles to the next loaded map and returns its key.
func (wm *WorldManager) NextMap() string {
	if len(wm.order) == 0 {
		return ""
	}
	idx := 0
	for i, k := range wm.order {
		if k == wm.CurrentMapKey {
			idx = (i + 1) % len(wm.order)
			break
		}
	}
	wm.CurrentMapKey = wm.order[idx]
	return wm.CurrentMapKey
}

// PrevMap cycles to the previous loaded map and returns its key.
func (wm *WorldManager) PrevMap() string {
	if len(wm.order) == 0 {
		return ""
	}
	idx := len(wm.order) - 1
	for i, k := range wm.order {
		if k == wm.CurrentMapKey {
			idx = (i - 1 + len(wm.order)) % len(wm.order)
			break
		}
	}
	wm.CurrentMapKey = wm.order[idx]
	return wm.CurrentMapKey
}

// GetAvailableMaps returns map keys in load order.
func (wm *WorldManager) GetAvailableMaps() []string {
	out := make([]string, len(wm.order))
	copy(out, wm.order)
	return out
}

func (wm *WorldManager) IsValidMap(mapKey string) bool {
	_, ok := wm.LoadedMaps[mapKey]
	return ok
}
