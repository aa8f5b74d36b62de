package mathutil

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IntClamp limits v to [lo, hi]. Used to pull taps outside the grid back
// onto its edge tiles.
func IntClamp(v, lo, hi int) int {
	return IntMax(lo, IntMin(v, hi))
}

func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func IntMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// IntAbs is the tile-distance building block for the grid heuristics.
func IntAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// WrapAngle maps an angle in radians into [-Pi, Pi).
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LerpAngle moves from a toward b by fraction t along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return a + WrapAngle(b-a)*t
}
