package geom

// Isometry3 is a rotation plus translation (a rigid transform), used for
// group-to-parent, camera-to-parent, and group-to-root transforms.
type Isometry3 struct {
	Rotation    Quat
	Translation Vec3
}

// IdentityIsometry3 is the no-op transform.
func IdentityIsometry3() Isometry3 {
	return Isometry3{Rotation: IdentityQuat()}
}

// Compose returns a.Compose(b), the transform that applies b first then a —
// i.e. for group_to_root = parent_to_root.Compose(group_to_parent), a point
// in the group's local space is first mapped by group_to_parent then by
// parent_to_root.
func (a Isometry3) Compose(b Isometry3) Isometry3 {
	return Isometry3{
		Rotation:    a.Rotation.Mul(b.Rotation),
		Translation: a.Rotation.RotateVec3(b.Translation).Add(a.Translation),
	}
}

// Inverse returns the transform that undoes a.
func (a Isometry3) Inverse() Isometry3 {
	invRot := a.Rotation.Inverse()
	return Isometry3{
		Rotation:    invRot,
		Translation: invRot.RotateVec3(a.Translation).Scale(-1),
	}
}

// TransformPoint maps a point from this transform's local space to its
// parent space.
func (a Isometry3) TransformPoint(p Vec3) Vec3 {
	return a.Rotation.RotateVec3(p).Add(a.Translation)
}

func (a Isometry3) ApproxEqual(b Isometry3, eps float64) bool {
	return a.Rotation.ApproxEqual(b.Rotation, eps) && a.Translation.ApproxEqual(b.Translation, eps)
}
