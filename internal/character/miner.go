package character

import (
	"fmt"
	"math"

	"isominer/internal/mathutil"
)

// Miner is the player-controlled character. Position and yaw are written by
// the movement controller while walking and by ore nodes when mining starts.
type Miner struct {
	Name string

	position mathutil.Vec3
	yaw      float64

	// Distance walked, for the HUD.
	Travelled float64
}

// NewMiner places a miner at pos facing +Z.
func NewMiner(name string, pos mathutil.Vec3) *Miner {
	return &Miner{Name: name, position: pos}
}

func (m *Miner) Position() mathutil.Vec3 { return m.position }

func (m *Miner) SetPosition(p mathutil.Vec3) {
	m.Travelled += m.position.PlanarDistanceTo(p)
	m.position = p
}

func (m *Miner) Yaw() float64 { return m.yaw }

func (m *Miner) SetYaw(yaw float64) { m.yaw = yaw }

// FaceTowards turns the miner to look at target on the ground plane. It does
// nothing when target is (almost) underfoot.
func (m *Miner) FaceTowards(target mathutil.Vec3) {
	to := target.Sub(m.position).Planar()
	if to.X*to.X+to.Z*to.Z <= 1e-6 {
		return
	}
	m.yaw = math.Atan2(to.X, to.Z)
}

// Heading returns the unit forward vector for the current yaw.
func (m *Miner) Heading() mathutil.Vec3 {
	return mathutil.Vec3{X: math.Sin(m.yaw), Z: math.Cos(m.yaw)}
}

func (m *Miner) GetDisplayInfo() string {
	return fmt.Sprintf("%s (%.1f, %.1f) yaw %.0f°", m.Name, m.position.X, m.position.Z,
		mathutil.WrapAngle(m.yaw)*180/math.Pi)
}
