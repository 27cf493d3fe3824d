package scene

import "github.com/ionforge/simcore/geom"

// CameraNodeID identifies a CameraNode within a SceneGraph.
type CameraNodeID uint64

// CameraID names the externally-owned camera a CameraNode drives.
type CameraID uint64

// CameraNode is a leaf of the scene graph carrying a camera-to-parent
// isometry. SyncCameraViewTransform composes it against the parent group's
// cached group-to-root transform to produce the camera's world-to-camera
// view transform.
type CameraNode struct {
	parentID GroupNodeID
	toParent geom.Isometry3
	cameraID CameraID

	viewTransform geom.Isometry3
}

func newCameraNode(parent GroupNodeID, transform geom.Isometry3, cameraID CameraID) *CameraNode {
	return &CameraNode{parentID: parent, toParent: transform, cameraID: cameraID}
}

// ParentID returns the id of the group this camera is attached to.
func (n *CameraNode) ParentID() GroupNodeID { return n.parentID }

// ToParent returns the camera's camera-to-parent isometry.
func (n *CameraNode) ToParent() geom.Isometry3 { return n.toParent }

// SetToParent overwrites the camera's camera-to-parent isometry.
func (n *CameraNode) SetToParent(t geom.Isometry3) { n.toParent = t }

// CameraID returns the externally-owned camera this node drives.
func (n *CameraNode) CameraID() CameraID { return n.cameraID }

// ViewTransform returns the world-to-camera transform computed by the last
// SyncCameraViewTransform call.
func (n *CameraNode) ViewTransform() geom.Isometry3 { return n.viewTransform }
