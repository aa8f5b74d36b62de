package movement

import (
	"log"
	"math"

	"isominer/internal/mathutil"
	"isominer/internal/navigation"
)

// Controller drives one Actor along paths from a shared Pathfinder. While a
// path is active it is the only writer of the actor's position and yaw.
//
// All methods are meant to be called from the frame loop goroutine.
type Controller struct {
	actor      Actor
	pathfinder *navigation.Pathfinder
	listener   MotionListener
	params     Params
	logger     *log.Logger

	state    State
	path     navigation.Path
	cursor   int
	onArrive func()

	// Stall bookkeeping, reset on every waypoint change.
	stallClock float64
	stallMoved float64
	lastPos    mathutil.Vec3

	stallSkips int
}

// NewController creates an idle controller. listener may be nil.
func NewController(actor Actor, pf *navigation.Pathfinder, listener MotionListener, params Params) *Controller {
	return &Controller{
		actor:      actor,
		pathfinder: pf,
		listener:   listener,
		params:     params.withDefaults(),
		logger:     log.Default(),
		state:      State{Kind: StateIdle},
		lastPos:    actor.Position(),
	}
}

// SetLogger replaces the logger used for stall reports. nil restores the
// default logger.
func (c *Controller) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	c.logger = l
}

// SetListener replaces the motion listener.
func (c *Controller) SetListener(l MotionListener) {
	c.listener = l
}

func (c *Controller) Params() Params { return c.params }

func (c *Controller) Actor() Actor { return c.actor }

func (c *Controller) State() State { return c.state }

// IsFollowing reports whether a path is active.
func (c *Controller) IsFollowing() bool { return c.state.Kind == StateFollowing }

// Interaction returns the handle holding the agent, or nil.
func (c *Controller) Interaction() Interaction {
	if c.state.Kind != StateInteracting {
		return nil
	}
	return c.state.Interaction
}

// Remaining returns a copy of the waypoints not yet reached.
func (c *Controller) Remaining() navigation.Path {
	if c.state.Kind != StateFollowing || c.cursor >= len(c.path) {
		return nil
	}
	out := make(navigation.Path, len(c.path)-c.cursor)
	copy(out, c.path[c.cursor:])
	return out
}

// StallSkips counts waypoints skipped by stall recovery.
func (c *Controller) StallSkips() int { return c.stallSkips }

// MoveTo plans a path from the actor to target and starts following it,
// replacing any current path or interaction. The previous arrival callback
// is dropped without being called. When no path exists nothing changes and
// MoveTo returns false.
//
// If target lies in the actor's own tile the path is empty; onArrive then
// fires on the next Tick.
func (c *Controller) MoveTo(target mathutil.Vec3, onArrive func()) bool {
	if c.pathfinder == nil {
		return false
	}
	path, ok := c.pathfinder.FindPath(c.actor.Position(), target)
	if !ok {
		return false
	}
	c.follow(path, onArrive)
	return true
}

// Cancel drops the current path or interaction and any pending callback
// without calling it.
func (c *Controller) Cancel() {
	c.clearPath()
	c.state = State{Kind: StateIdle}
}

// BeginInteraction hands exclusive control to h, superseding any path or
// previous interaction.
func (c *Controller) BeginInteraction(h Interaction) {
	c.clearPath()
	c.state = State{Kind: StateInteracting, Interaction: h}
}

// EndInteraction returns the agent to idle if h still holds it. It reports
// whether h was the current interaction.
func (c *Controller) EndInteraction(h Interaction) bool {
	if c.state.Kind != StateInteracting || c.state.Interaction != h {
		return false
	}
	c.state = State{Kind: StateIdle}
	return true
}

func (c *Controller) follow(path navigation.Path, onArrive func()) {
	c.path = path
	c.cursor = 0
	c.onArrive = onArrive
	c.state = State{Kind: StateFollowing}
	c.resetStall()
}

func (c *Controller) clearPath() {
	c.path = nil
	c.cursor = 0
	c.onArrive = nil
	c.resetStall()
}

func (c *Controller) resetStall() {
	c.stallClock = 0
	c.stallMoved = 0
	c.lastPos = c.actor.Position()
}

// Tick advances the controller by dt seconds and notifies the listener once.
func (c *Controller) Tick(dt float64) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}
	c.step(dt)
	if c.listener != nil {
		c.listener.SetMoving(c.state.Kind == StateFollowing)
	}
}

// step processes at most one waypoint transition.
func (c *Controller) step(dt float64) {
	if c.state.Kind != StateFollowing {
		return
	}
	if c.cursor >= len(c.path) {
		c.finish()
		return
	}

	pos := c.actor.Position()
	target := c.path[c.cursor]
	to := target.Sub(pos).Planar()
	dist := to.Length()

	if dist <= c.params.ArriveEpsilon {
		c.advance()
		return
	}

	targetYaw := math.Atan2(to.X, to.Z)
	blend := 1 - math.Exp(-c.params.TurnRate*dt)
	c.actor.SetYaw(mathutil.LerpAngle(c.actor.Yaw(), targetYaw, blend))

	stepLen := math.Min(dist, c.params.Speed*dt)
	next := pos.Add(to.Scale(stepLen / dist))
	next = c.pathfinder.Grid().ClampPoint(next)
	c.actor.SetPosition(next)

	moved := next.PlanarDistanceTo(c.lastPos)
	if moved >= c.params.MinMoveEpsilon {
		c.stallMoved += moved
	}
	c.lastPos = next
	c.stallClock += dt

	if c.stallClock > c.params.StallTimeout {
		if c.stallMoved < c.params.StallDistance {
			c.stallSkips++
			c.logger.Printf("movement: skipping stalled waypoint %d/%d at (%.2f, %.2f)",
				c.cursor+1, len(c.path), target.X, target.Z)
			c.advance()
			return
		}
		c.stallClock = 0
		c.stallMoved = 0
	}
}

func (c *Controller) advance() {
	c.cursor++
	c.resetStall()
	if c.cursor >= len(c.path) {
		c.finish()
	}
}

// finish ends the path and fires the arrival callback once. The callback
// runs after the controller is idle, so it may start a new path or claim an
// interaction.
func (c *Controller) finish() {
	cb := c.onArrive
	c.clearPath()
	c.state = State{Kind: StateIdle}
	if cb == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Printf("movement: arrival callback panicked: %v", r)
		}
	}()
	cb()
}
