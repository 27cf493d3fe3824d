package geom

import "math"

// AABB is an axis-aligned bounding box, inclusive of Min, exclusive of Max.
type AABB struct {
	Min, Max Vec3
}

func (b AABB) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X < b.Max.X &&
		p.Y >= b.Min.Y && p.Y < b.Max.Y &&
		p.Z >= b.Min.Z && p.Z < b.Max.Z
}

// Intersect returns the overlap of two AABBs; Empty() reports true if they
// do not overlap on some axis.
func (b AABB) Intersect(o AABB) AABB {
	return AABB{
		Min: Vec3{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)},
	}
}

func (b AABB) Empty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z
}

// Corners returns the box's 8 corner points.
func (b AABB) Corners() [8]Vec3 {
	var out [8]Vec3
	i := 0
	for _, x := range []float64{b.Min.X, b.Max.X} {
		for _, y := range []float64{b.Min.Y, b.Max.Y} {
			for _, z := range []float64{b.Min.Z, b.Max.Z} {
				out[i] = Vec3{X: x, Y: y, Z: z}
				i++
			}
		}
	}
	return out
}

// Sphere is a center and radius used for sphere-shaped voxel queries.
type Sphere struct {
	Center Vec3
	Radius float64
}

func (s Sphere) AABB() AABB {
	r := Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

func (s Sphere) ContainsPoint(p Vec3) bool {
	return p.DistanceSquared(s.Center) <= s.Radius*s.Radius
}

// Plane is defined by a unit normal and the signed distance of the origin
// to the plane along that normal: points p with Normal.Dot(p)+Offset <= 0
// lie in the negative halfspace.
type Plane struct {
	Normal Vec3
	Offset float64
}

func (p Plane) SignedDistance(point Vec3) float64 {
	return p.Normal.Dot(point) + p.Offset
}

func (p Plane) ContainsPoint(point Vec3) bool {
	return p.SignedDistance(point) <= 0
}

// Capsule is a cylinder with hemispherical caps between A and B.
type Capsule struct {
	A, B   Vec3
	Radius float64
}

func (c Capsule) AABB() AABB {
	r := Vec3{c.Radius, c.Radius, c.Radius}
	min := Vec3{math.Min(c.A.X, c.B.X), math.Min(c.A.Y, c.B.Y), math.Min(c.A.Z, c.B.Z)}
	max := Vec3{math.Max(c.A.X, c.B.X), math.Max(c.A.Y, c.B.Y), math.Max(c.A.Z, c.B.Z)}
	return AABB{Min: min.Sub(r), Max: max.Add(r)}
}

func (c Capsule) ContainsPoint(p Vec3) bool {
	axis := c.B.Sub(c.A)
	lenSq := axis.LengthSquared()
	if lenSq == 0 {
		return p.DistanceSquared(c.A) <= c.Radius*c.Radius
	}
	t := p.Sub(c.A).Dot(axis) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := c.A.Add(axis.Scale(t))
	return p.DistanceSquared(closest) <= c.Radius*c.Radius
}

// Box is an oriented box: a center, half-extents along its own local axes,
// and Rotation, which maps a world-space offset from Center into the box's
// local frame (AABB applies its inverse to place the corners in world space).
type Box struct {
	Center      Vec3
	HalfExtents Vec3
	Rotation    Quat
}

func (b Box) AABB() AABB {
	inv := b.Rotation.Inverse()
	corners := [8]Vec3{}
	i := 0
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				local := Vec3{sx * b.HalfExtents.X, sy * b.HalfExtents.Y, sz * b.HalfExtents.Z}
				corners[i] = b.Center.Add(inv.RotateVec3(local))
				i++
			}
		}
	}
	min, max := corners[0], corners[0]
	for _, c := range corners[1:] {
		min = Vec3{math.Min(min.X, c.X), math.Min(min.Y, c.Y), math.Min(min.Z, c.Z)}
		max = Vec3{math.Max(max.X, c.X), math.Max(max.Y, c.Y), math.Max(max.Z, c.Z)}
	}
	return AABB{Min: min, Max: max}
}

func (b Box) ContainsPoint(p Vec3) bool {
	local := b.Rotation.RotateVec3(p.Sub(b.Center))
	return math.Abs(local.X) <= b.HalfExtents.X &&
		math.Abs(local.Y) <= b.HalfExtents.Y &&
		math.Abs(local.Z) <= b.HalfExtents.Z
}
