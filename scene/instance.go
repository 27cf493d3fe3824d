package scene

import (
	"sync/atomic"

	"github.com/ionforge/simcore/geom"
)

// ModelInstanceNodeID identifies a ModelInstanceNode within a SceneGraph.
type ModelInstanceNodeID uint64

// ModelID names the model a ModelInstanceNode renders. The model catalog
// itself lives outside the scene graph.
type ModelID uint64

// InstanceFeatureID is an opaque 64-bit handle into an external
// FeatureStorage, which maps these to GPU-visible transform bytes.
type InstanceFeatureID uint64

// FeatureStorage resolves an InstanceFeatureID to its GPU-visible transform
// bytes. Consumer-defined: the scene graph only calls it, never owns one.
type FeatureStorage interface {
	TransformBytes(InstanceFeatureID) ([]byte, bool)
}

// ModelInstanceFlags are the binary states tracked per model instance.
type ModelInstanceFlags uint8

const (
	// FlagHidden excludes the instance from rendering and shadow maps.
	FlagHidden ModelInstanceFlags = 1 << iota
	// FlagNoShadow excludes the instance from shadow maps only.
	FlagNoShadow
	// FlagIndependentMaterial marks the instance as not sharing its
	// material with other instances of the same model.
	FlagIndependentMaterial
	// FlagShadowDistanceExceeded marks the instance as beyond the
	// configured shadow-casting distance for the active light.
	FlagShadowDistanceExceeded
)

// Has reports whether f contains every bit set in other.
func (f ModelInstanceFlags) Has(other ModelInstanceFlags) bool { return f&other == other }

// ModelInstanceNode is a leaf of the scene graph bound to a renderable model
// instance. Its local-to-parent transform is a Similarity3 (rotation,
// translation, and a uniform scale) rather than a rigid Isometry3, since
// model instances may be scaled relative to their source mesh by a single
// uniform factor.
type ModelInstanceNode struct {
	parentID GroupNodeID
	toParent geom.Similarity3
	modelID  ModelID

	boundingSphere geom.Sphere

	renderFeatures []InstanceFeatureID
	shadowFeatures []InstanceFeatureID

	flags ModelInstanceFlags

	lastVisibleFrame atomic.Uint64
}

func newModelInstanceNode(
	parent GroupNodeID,
	transform geom.Similarity3,
	modelID ModelID,
	boundingSphere geom.Sphere,
	renderFeatures, shadowFeatures []InstanceFeatureID,
	flags ModelInstanceFlags,
) *ModelInstanceNode {
	return &ModelInstanceNode{
		parentID:       parent,
		toParent:       transform,
		modelID:        modelID,
		boundingSphere: boundingSphere,
		renderFeatures: append([]InstanceFeatureID(nil), renderFeatures...),
		shadowFeatures: append([]InstanceFeatureID(nil), shadowFeatures...),
		flags:          flags,
	}
}

// ParentID returns the id of the group this instance is attached to.
func (n *ModelInstanceNode) ParentID() GroupNodeID { return n.parentID }

// ToParent returns the instance's local-to-parent similarity transform.
func (n *ModelInstanceNode) ToParent() geom.Similarity3 { return n.toParent }

// SetToParent overwrites the instance's local-to-parent transform.
func (n *ModelInstanceNode) SetToParent(t geom.Similarity3) { n.toParent = t }

// ModelID returns the model this instance renders.
func (n *ModelInstanceNode) ModelID() ModelID { return n.modelID }

// BoundingSphere returns the instance's model-space bounding sphere.
func (n *ModelInstanceNode) BoundingSphere() geom.Sphere { return n.boundingSphere }

// SetBoundingSphere overwrites the instance's model-space bounding sphere.
func (n *ModelInstanceNode) SetBoundingSphere(s geom.Sphere) { n.boundingSphere = s }

// RenderFeatureIDs returns the instance's ordered rendering feature ids.
func (n *ModelInstanceNode) RenderFeatureIDs() []InstanceFeatureID { return n.renderFeatures }

// ShadowFeatureIDs returns the instance's ordered shadow-mapping feature
// ids.
func (n *ModelInstanceNode) ShadowFeatureIDs() []InstanceFeatureID { return n.shadowFeatures }

// RenderFeatures resolves the instance's rendering feature ids against
// storage, in order. ok is false if any id fails to resolve.
func (n *ModelInstanceNode) RenderFeatures(storage FeatureStorage) (bytes [][]byte, ok bool) {
	return resolveFeatures(storage, n.renderFeatures)
}

// ShadowFeatures resolves the instance's shadow-mapping feature ids against
// storage, in order. ok is false if any id fails to resolve.
func (n *ModelInstanceNode) ShadowFeatures(storage FeatureStorage) (bytes [][]byte, ok bool) {
	return resolveFeatures(storage, n.shadowFeatures)
}

func resolveFeatures(storage FeatureStorage, ids []InstanceFeatureID) ([][]byte, bool) {
	out := make([][]byte, len(ids))
	for i, id := range ids {
		b, ok := storage.TransformBytes(id)
		if !ok {
			return nil, false
		}
		out[i] = b
	}
	return out, true
}

// Flags returns the instance's current flags.
func (n *ModelInstanceNode) Flags() ModelInstanceFlags { return n.flags }

// SetFlags overwrites the instance's flags.
func (n *ModelInstanceNode) SetFlags(f ModelInstanceFlags) { n.flags = f }

// LastVisibleFrame returns the frame number at which the instance was last
// determined visible, loaded with relaxed ordering: the counter is
// informational only.
func (n *ModelInstanceNode) LastVisibleFrame() uint64 {
	return n.lastVisibleFrame.Load()
}

// MarkVisible records frame as the instance's last-visible frame.
func (n *ModelInstanceNode) MarkVisible(frame uint64) {
	n.lastVisibleFrame.Store(frame)
}

// Well-known feature ids every model instance's first render/shadow feature
// must carry, mirroring the original engine's fixed
// InstanceModelViewTransformWithPrevious/InstanceModelLightTransform feature
// type ids. Consumers register the actual transform bytes for these ids in
// their FeatureStorage; the scene graph only checks ordering.
const (
	ModelViewTransformFeatureID  InstanceFeatureID = 1
	ModelLightTransformFeatureID InstanceFeatureID = 2
)

// validateFeatureOrder enforces the leading-transform-feature precondition:
// the first rendering feature, if any, must be ModelViewTransformFeatureID;
// the first shadow feature, if any, must be ModelLightTransformFeatureID.
func validateFeatureOrder(renderFeatures, shadowFeatures []InstanceFeatureID) error {
	if len(renderFeatures) > 0 && renderFeatures[0] != ModelViewTransformFeatureID {
		return newFeatureOrderError("render")
	}
	if len(shadowFeatures) > 0 && shadowFeatures[0] != ModelLightTransformFeatureID {
		return newFeatureOrderError("shadow")
	}
	return nil
}
