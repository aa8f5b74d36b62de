package character

import (
	"math"
	"testing"

	"isominer/internal/mathutil"
	"isominer/internal/movement"
)

var _ movement.Actor = (*Miner)(nil)
var _ movement.MotionListener = (*Animator)(nil)

func TestMinerTracksTravel(t *testing.T) {
	m := NewMiner("Test", mathutil.Vec3{X: 1, Z: 1})
	m.SetPosition(mathutil.Vec3{X: 4, Y: 2, Z: 5})
	if math.Abs(m.Travelled-5) > 1e-9 {
		t.Errorf("expected 5 units travelled, got %f", m.Travelled)
	}
}

func TestFaceTowards(t *testing.T) {
	m := NewMiner("Test", mathutil.Vec3{X: 2, Z: 2})
	m.FaceTowards(mathutil.Vec3{X: 3, Z: 2})
	if math.Abs(m.Yaw()-math.Pi/2) > 1e-9 {
		t.Errorf("facing +X should give yaw pi/2, got %f", m.Yaw())
	}
	h := m.Heading()
	if math.Abs(h.X-1) > 1e-9 || math.Abs(h.Z) > 1e-9 {
		t.Errorf("unexpected heading %+v", h)
	}
	m.FaceTowards(mathutil.Vec3{X: 2, Y: 5, Z: 2})
	if math.Abs(m.Yaw()-math.Pi/2) > 1e-9 {
		t.Errorf("target underfoot must not change yaw, got %f", m.Yaw())
	}
}

func TestMinerFollowsController(t *testing.T) {
	m := NewMiner("Test", mathutil.Vec3{X: 0.5, Z: 0.5})
	anim := NewAnimator()
	c := newController(m, anim)

	arrived := false
	if !c.MoveTo(mathutil.Vec3{X: 3.5, Z: 0.5}, func() { arrived = true }) {
		t.Fatalf("expected a path")
	}
	c.Tick(1.0 / 60)
	if anim.Active() != ClipWalk {
		t.Errorf("expected walk clip while following, got %v", anim.Active())
	}
	for i := 0; i < 600 && !arrived; i++ {
		c.Tick(1.0 / 60)
	}
	if !arrived {
		t.Fatalf("miner never arrived")
	}
	c.Tick(1.0 / 60)
	if anim.Active() != ClipIdle {
		t.Errorf("expected idle after arrival, got %v", anim.Active())
	}
	if m.Travelled < 2.9 {
		t.Errorf("expected about 3 units travelled, got %f", m.Travelled)
	}
}
