package movement

import (
	"isominer/internal/mathutil"
)

// Actor is the controllable body: a world-space position and a yaw around
// the vertical axis. Yaw 0 faces +Z; atan2(dx, dz) gives the heading.
type Actor interface {
	Position() mathutil.Vec3
	SetPosition(p mathutil.Vec3)
	Yaw() float64
	SetYaw(yaw float64)
}

// MotionListener is told exactly once per Tick whether the actor is
// following a path, so walk/idle selection never flickers within a frame.
type MotionListener interface {
	SetMoving(moving bool)
}

// Interaction is a handle for whatever holds exclusive control of the agent
// when it is not walking, e.g. an ore node being mined.
type Interaction interface {
	InteractionName() string
}

// StateKind enumerates the agent states.
type StateKind int

const (
	StateIdle StateKind = iota
	StateFollowing
	StateInteracting
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateFollowing:
		return "following"
	case StateInteracting:
		return "interacting"
	default:
		return "unknown"
	}
}

// State is the tagged agent state. Interaction is set only for
// StateInteracting.
type State struct {
	Kind        StateKind
	Interaction Interaction
}

func (s State) String() string {
	if s.Kind == StateInteracting && s.Interaction != nil {
		return s.Kind.String() + "(" + s.Interaction.InteractionName() + ")"
	}
	return s.Kind.String()
}

// Params tunes the steering loop. Zero fields take the defaults below.
type Params struct {
	Speed          float64 // world units per second
	ArriveEpsilon  float64 // waypoint reached within this planar distance
	TurnRate       float64 // yaw smoothing rate, 1/s
	StallTimeout   float64 // seconds per stall window
	StallDistance  float64 // less movement than this in a window is a stall
	MinMoveEpsilon float64 // movement below this does not count as progress
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		Speed:          2.6,
		ArriveEpsilon:  0.04,
		TurnRate:       12,
		StallTimeout:   1.2,
		StallDistance:  0.02,
		MinMoveEpsilon: 1e-4,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Speed <= 0 {
		p.Speed = d.Speed
	}
	if p.ArriveEpsilon <= 0 {
		p.ArriveEpsilon = d.ArriveEpsilon
	}
	if p.TurnRate <= 0 {
		p.TurnRate = d.TurnRate
	}
	if p.StallTimeout <= 0 {
		p.StallTimeout = d.StallTimeout
	}
	if p.StallDistance <= 0 {
		p.StallDistance = d.StallDistance
	}
	if p.MinMoveEpsilon <= 0 {
		p.MinMoveEpsilon = d.MinMoveEpsilon
	}
	return p
}
