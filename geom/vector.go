// Package geom provides the vector, quaternion, isometry, and bounding-shape
// math shared by scene and voxel. No ecosystem 3D-math library appears
// anywhere in the retrieval pack (checked for mgl32/mgl64, go-gl/mathgl, and
// similar); this package is the justified stdlib-only exception recorded in
// DESIGN.md.
package geom

import "math"

// Vec3 is a 3-component vector, used for positions, translations, and axes.
type Vec3 struct {
	X, Y, Z float64
}

func NewVec3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LengthSquared() float64 { return a.Dot(a) }
func (a Vec3) Length() float64        { return math.Sqrt(a.LengthSquared()) }

func (a Vec3) Normalized() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// DistanceSquared returns the squared distance between two points, used
// throughout voxel queries where only relative ordering or a threshold
// comparison is needed.
func (a Vec3) DistanceSquared(b Vec3) float64 { return a.Sub(b).LengthSquared() }

func (a Vec3) ApproxEqual(b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
