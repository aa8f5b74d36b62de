// keytracker.go - minimal input utility for Ebiten v2.8.8
// Provides IsKeyJustPressed functionality for a set of keys.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker tracks the previous state of every key it is asked about.
type KeyStateTracker struct {
	// Pressed reports the live key state. Nil means ebiten.IsKeyPressed.
	Pressed func(ebiten.Key) bool

	prev map[ebiten.Key]bool
}

// IsKeyJustPressed returns true if the key was not pressed last frame but is pressed this frame.
func (k *KeyStateTracker) IsKeyJustPressed(key ebiten.Key) bool {
	pressedFn := k.Pressed
	if pressedFn == nil {
		pressedFn = ebiten.IsKeyPressed
	}
	if k.prev == nil {
		k.prev = make(map[ebiten.Key]bool)
	}
	pressed := pressedFn(key)
	justPressed := pressed && !k.prev[key]
	k.prev[key] = pressed
	return justPressed
}
