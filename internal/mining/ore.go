package mining

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"isominer/internal/character"
	"isominer/internal/config"
	"isominer/internal/mathutil"
	"isominer/internal/movement"
	"isominer/internal/navigation"
)

// Sound event names.
const (
	SoundMiningHit    = "mining-hit"
	SoundRockDeplete  = "rock-deplete"
	miningHitVolume   = 0.9
	rockDepleteVolume = 1.0
)

// SoundPlayer plays a named one-shot sound.
type SoundPlayer interface {
	Play(name string, volume float64)
}

// LogSoundPlayer writes sound events to a logger in place of audio output.
type LogSoundPlayer struct {
	Logger *log.Logger
}

func (p LogSoundPlayer) Play(name string, volume float64) {
	l := p.Logger
	if l == nil {
		l = log.Default()
	}
	l.Printf("sound: %s (volume %.1f)", name, volume)
}

// Settings tunes the mining cycle.
type Settings struct {
	MaxHealth     int
	RespawnDelay  float64
	SwingInterval float64
	HitSfxAt      float64
	YieldMin      int
	YieldMax      int
}

func SettingsFromConfig(cfg *config.Config) Settings {
	lo, hi := cfg.GetYieldRange()
	return Settings{
		MaxHealth:     cfg.GetOreMaxHealth(),
		RespawnDelay:  cfg.GetOreRespawnDelay(),
		SwingInterval: cfg.GetSwingInterval(),
		HitSfxAt:      cfg.GetHitSfxAt(),
		YieldMin:      lo,
		YieldMax:      hi,
	}
}

// Session bundles the collaborators an ore node drives while it is mined:
// the miner's controller, body, animator and inventory.
type Session struct {
	Controller *movement.Controller
	Miner      *character.Miner
	Animator   *character.Animator
	Inventory  *Inventory
	Sound      SoundPlayer
	Rand       *rand.Rand
	Logger     *log.Logger
}

func (s *Session) play(name string, volume float64) {
	if s.Sound != nil {
		s.Sound.Play(name, volume)
	}
}

func (s *Session) intn(n int) int {
	if s.Rand != nil {
		return s.Rand.Intn(n)
	}
	return rand.Intn(n)
}

func (s *Session) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// OreNode is a mineable rock occupying one unwalkable tile.
type OreNode struct {
	ID   int
	Kind string
	Tile navigation.Tile
	Yaw  float64

	settings Settings
	grid     *navigation.TileGrid

	health       int
	depleted     bool
	respawnTimer float64

	mineClock    float64
	playedHitSfx bool
}

// NewOreNode creates a full-health ore on tile. The caller marks the tile
// unwalkable.
func NewOreNode(id int, kind string, tile navigation.Tile, yaw float64, grid *navigation.TileGrid, settings Settings) *OreNode {
	if settings.MaxHealth <= 0 {
		settings.MaxHealth = 1
	}
	return &OreNode{
		ID:       id,
		Kind:     kind,
		Tile:     tile,
		Yaw:      yaw,
		settings: settings,
		grid:     grid,
		health:   settings.MaxHealth,
	}
}

func (o *OreNode) InteractionName() string {
	return fmt.Sprintf("%s#%d", o.Kind, o.ID)
}

func (o *OreNode) Health() int      { return o.health }
func (o *OreNode) MaxHealth() int   { return o.settings.MaxHealth }
func (o *OreNode) IsDepleted() bool { return o.depleted }

// Visible reports whether the rock should be drawn.
func (o *OreNode) Visible() bool { return !o.depleted }

// RespawnIn returns the seconds left until a depleted ore returns.
func (o *OreNode) RespawnIn() float64 {
	if !o.depleted {
		return 0
	}
	return math.Max(0, o.respawnTimer)
}

// Center returns the ore tile center at ground height y.
func (o *OreNode) Center(y float64) mathutil.Vec3 {
	return o.grid.TileCenter(o.Tile.X, o.Tile.Z, y)
}

// StandTile picks the orthogonal neighbor whose center is nearest to from.
// Walkable in-bounds neighbors win over blocked ones; when every neighbor is
// blocked the nearest in-bounds one is still returned so the pathfinder can
// report failure.
func (o *OreNode) StandTile(from mathutil.Vec3) navigation.Tile {
	cands := [4]navigation.Tile{
		{X: o.Tile.X + 1, Z: o.Tile.Z},
		{X: o.Tile.X - 1, Z: o.Tile.Z},
		{X: o.Tile.X, Z: o.Tile.Z + 1},
		{X: o.Tile.X, Z: o.Tile.Z - 1},
	}
	best, bestD2, bestWalkable := navigation.Tile{X: o.Tile.X + 1, Z: o.Tile.Z}, math.Inf(1), false
	for _, c := range cands {
		if !o.grid.InBounds(c.X, c.Z) {
			continue
		}
		walkable := o.grid.IsWalkable(c.X, c.Z)
		if bestWalkable && !walkable {
			continue
		}
		p := o.grid.TileCenter(c.X, c.Z, from.Y)
		dx, dz := p.X-from.X, p.Z-from.Z
		d2 := dx*dx + dz*dz
		if (walkable && !bestWalkable) || d2 < bestD2 {
			best, bestD2, bestWalkable = c, d2, walkable
		}
	}
	return best
}

// StandPoint is the world-space center of StandTile.
func (o *OreNode) StandPoint(from mathutil.Vec3) mathutil.Vec3 {
	t := o.StandTile(from)
	return o.grid.TileCenter(t.X, t.Z, from.Y)
}

// OnTapped walks the miner to a stand tile and starts mining on arrival. It
// reports whether a walk was started; depleted ores ignore taps. Tapping the
// ore already being mined keeps the current swing.
func (o *OreNode) OnTapped(s *Session) bool {
	if o.depleted {
		return false
	}
	if o.IsMinedBy(s) {
		return true
	}
	stand := o.StandPoint(s.Miner.Position())
	if !s.Controller.MoveTo(stand, func() { o.beginMining(s) }) {
		s.logf("mining: no path to %s", o.InteractionName())
		return false
	}
	return true
}

func (o *OreNode) beginMining(s *Session) {
	if o.depleted || o.IsMinedBy(s) {
		return
	}
	s.Miner.FaceTowards(o.Center(s.Miner.Position().Y))
	s.Controller.BeginInteraction(o)
	s.Animator.PlayMining()
	o.mineClock = 0
	o.playedHitSfx = false
}

// IsMinedBy reports whether this ore currently holds the session's miner.
func (o *OreNode) IsMinedBy(s *Session) bool {
	h := s.Controller.Interaction()
	return h != nil && h == movement.Interaction(o)
}

// Update advances respawn and, while this ore holds the miner, the swing
// cycle.
func (o *OreNode) Update(dt float64, s *Session) {
	if dt <= 0 {
		return
	}
	o.dropStaleMiningClip(s)
	if o.depleted {
		o.respawnTimer -= dt
		if o.respawnTimer <= 0 {
			o.respawn()
		}
		return
	}
	if !o.IsMinedBy(s) || s.Animator.Active() != character.ClipMining {
		return
	}

	o.mineClock += dt
	if !o.playedHitSfx && o.mineClock >= o.settings.HitSfxAt {
		o.playedHitSfx = true
		s.play(SoundMiningHit, miningHitVolume)
	}
	if o.mineClock >= o.settings.SwingInterval {
		o.mineClock = 0
		o.playedHitSfx = false
		o.applyHit(s)
	}
}

// dropStaleMiningClip returns the animator to idle when the mining loop
// outlived its interaction, e.g. after an empty path replaced it.
func (o *OreNode) dropStaleMiningClip(s *Session) {
	if s.Animator.Active() != character.ClipMining {
		return
	}
	if s.Controller.Interaction() != nil || s.Controller.IsFollowing() {
		return
	}
	s.Animator.PlayIdle()
}

func (o *OreNode) applyHit(s *Session) {
	if o.depleted {
		return
	}
	o.health--

	lo, hi := o.settings.YieldMin, o.settings.YieldMax
	if hi < lo {
		hi = lo
	}
	gained := lo + s.intn(hi-lo+1)
	if s.Inventory != nil {
		s.Inventory.Add(ItemCopper, gained)
	}
	s.logf("mining: %s hit, +%d %s (%d/%d left)", o.InteractionName(), gained, ItemCopper, o.health, o.settings.MaxHealth)

	if o.health <= 0 {
		o.deplete(s)
		return
	}
	s.Animator.RestartMining()
}

func (o *OreNode) deplete(s *Session) {
	o.depleted = true
	o.respawnTimer = o.settings.RespawnDelay
	s.play(SoundRockDeplete, rockDepleteVolume)
	if s.Controller.EndInteraction(o) {
		s.Animator.PlayIdle()
	}
}

func (o *OreNode) respawn() {
	o.depleted = false
	o.health = o.settings.MaxHealth
	o.respawnTimer = 0
	o.mineClock = 0
	o.playedHitSfx = false
}
