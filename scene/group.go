package scene

import "github.com/ionforge/simcore/geom"

// GroupNodeID identifies a GroupNode within a SceneGraph. GroupNodeID(0) is
// reserved for the graph's root.
type GroupNodeID uint64

// GroupNode is an interior node of the scene graph: it carries its own
// local-to-parent isometry and caches the composed local-to-root isometry
// computed by UpdateAllGroupToRootTransforms each frame.
type GroupNode struct {
	parentID GroupNodeID
	isRoot   bool

	toParent geom.Isometry3
	toRoot   geom.Isometry3

	childGroups   map[GroupNodeID]struct{}
	childInstances map[ModelInstanceNodeID]struct{}
	childCameras  map[CameraNodeID]struct{}

	boundingSphere    geom.Sphere
	hasBoundingSphere bool
}

func newGroupNode(parent GroupNodeID, transform geom.Isometry3) *GroupNode {
	return &GroupNode{
		parentID:       parent,
		toParent:       transform,
		toRoot:         transform,
		childGroups:    make(map[GroupNodeID]struct{}),
		childInstances: make(map[ModelInstanceNodeID]struct{}),
		childCameras:   make(map[CameraNodeID]struct{}),
	}
}

func newRootGroupNode() *GroupNode {
	n := newGroupNode(0, geom.IdentityIsometry3())
	n.isRoot = true
	return n
}

// ParentID returns the id of the group this node is attached to. The root
// reports itself as its own parent.
func (n *GroupNode) ParentID() GroupNodeID { return n.parentID }

// ToParent returns the node's local-to-parent isometry.
func (n *GroupNode) ToParent() geom.Isometry3 { return n.toParent }

// ToRoot returns the cached local-to-root isometry as of the last
// UpdateAllGroupToRootTransforms call.
func (n *GroupNode) ToRoot() geom.Isometry3 { return n.toRoot }

// IsRoot reports whether this is the graph's single root group.
func (n *GroupNode) IsRoot() bool { return n.isRoot }

// BoundingSphere returns the node's bounding sphere (in local-to-parent
// space) and whether one has been set.
func (n *GroupNode) BoundingSphere() (geom.Sphere, bool) {
	return n.boundingSphere, n.hasBoundingSphere
}

// SetBoundingSphere records the node's bounding sphere.
func (n *GroupNode) SetBoundingSphere(s geom.Sphere) {
	n.boundingSphere = s
	n.hasBoundingSphere = true
}
