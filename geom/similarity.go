package geom

// Similarity3 is a rotation, translation, and uniform scale, used for
// model-instance local-to-parent transforms.
type Similarity3 struct {
	Rotation    Quat
	Translation Vec3
	Scale       float64
}

func IdentitySimilarity3() Similarity3 {
	return Similarity3{Rotation: IdentityQuat(), Scale: 1}
}

// ComposeWithIsometry returns the similarity obtained by applying this
// similarity first, then parentToRoot — used to fold a model instance's
// local-to-parent similarity into its owning group's local-to-root isometry.
func (s Similarity3) ComposeWithIsometry(parentToRoot Isometry3) Similarity3 {
	return Similarity3{
		Rotation:    parentToRoot.Rotation.Mul(s.Rotation),
		Translation: parentToRoot.Rotation.RotateVec3(s.Translation).Add(parentToRoot.Translation),
		Scale:       s.Scale,
	}
}

func (s Similarity3) TransformPoint(p Vec3) Vec3 {
	scaled := p.Scale(s.Scale)
	return s.Rotation.RotateVec3(scaled).Add(s.Translation)
}

func (a Similarity3) ApproxEqual(b Similarity3, eps float64) bool {
	return a.Rotation.ApproxEqual(b.Rotation, eps) &&
		a.Translation.ApproxEqual(b.Translation, eps) &&
		(a.Scale-b.Scale) < eps && (b.Scale-a.Scale) < eps
}
