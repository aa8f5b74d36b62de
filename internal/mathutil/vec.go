package mathutil

import "math"

// Vec3 is a world-space point. Y is height; the ground plane is X/Z.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Planar drops the Y component.
func (v Vec3) Planar() Vec3 { return Vec3{X: v.X, Z: v.Z} }

func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// DistanceTo is the full 3D distance between two points.
func (v Vec3) DistanceTo(o Vec3) float64 { return v.Sub(o).Length() }

// PlanarDistanceTo ignores height.
func (v Vec3) PlanarDistanceTo(o Vec3) float64 { return math.Hypot(v.X-o.X, v.Z-o.Z) }
