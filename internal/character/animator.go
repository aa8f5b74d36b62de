package character

import "math"

// Clip names an animation loop.
type Clip int

const (
	ClipNone Clip = iota
	ClipIdle
	ClipWalk
	ClipMining
)

func (c Clip) String() string {
	switch c {
	case ClipIdle:
		return "idle"
	case ClipWalk:
		return "walk"
	case ClipMining:
		return "mining"
	default:
		return "none"
	}
}

// Cross-fade durations in seconds.
const (
	walkFade   = 0.15
	idleFade   = 0.2
	miningFade = 0.15
)

// Animator tracks which looping clip plays and how far it is into the loop
// and the current cross-fade. It has no rendering of its own.
type Animator struct {
	active   Clip
	previous Clip

	clipTime float64
	fade     float64
	fadeLeft float64

	switches int
}

// NewAnimator starts on the idle clip.
func NewAnimator() *Animator {
	a := &Animator{}
	a.PlayIdle()
	return a
}

func (a *Animator) Active() Clip { return a.active }

// ClipTime is the time spent in the active clip.
func (a *Animator) ClipTime() float64 { return a.clipTime }

// Switches counts clip changes.
func (a *Animator) Switches() int { return a.switches }

// Blend returns the weight of the active clip in [0, 1]; the previous clip
// carries the rest.
func (a *Animator) Blend() (Clip, Clip, float64) {
	if a.fadeLeft <= 0 || a.fade <= 0 {
		return a.active, ClipNone, 1
	}
	return a.active, a.previous, 1 - a.fadeLeft/a.fade
}

func (a *Animator) Update(dt float64) {
	if dt <= 0 {
		return
	}
	a.clipTime += dt
	a.fadeLeft = math.Max(0, a.fadeLeft-dt)
}

func (a *Animator) PlayWalk() { a.play(ClipWalk, walkFade) }

func (a *Animator) PlayIdle() { a.play(ClipIdle, idleFade) }

func (a *Animator) PlayMining() { a.play(ClipMining, miningFade) }

// RestartMining rewinds the mining loop after a hit without a cross-fade.
func (a *Animator) RestartMining() {
	if a.active == ClipMining {
		a.clipTime = 0
	}
}

// SetMoving selects walk or idle once per frame. Idle never interrupts the
// mining loop; walking does.
func (a *Animator) SetMoving(moving bool) {
	if moving {
		a.PlayWalk()
		return
	}
	if a.active == ClipMining {
		return
	}
	a.PlayIdle()
}

func (a *Animator) play(c Clip, fade float64) {
	if a.active == c {
		return
	}
	a.previous = a.active
	a.active = c
	a.clipTime = 0
	a.fade = fade
	a.fadeLeft = fade
	a.switches++
}
