package scene

import (
	"iter"
	"sync"

	"github.com/ionforge/simcore/geom"
)

// RootGroupNodeID is the fixed id of the graph's single root group.
const RootGroupNodeID GroupNodeID = 0

// SceneGraph is a forest of group, model-instance, and camera nodes rooted
// at a single root group. Structural mutation (create/remove) and transform
// writes require exclusive access; reads taken after
// UpdateAllGroupToRootTransforms may be shared.
type SceneGraph struct {
	mu sync.RWMutex

	groups    map[GroupNodeID]*GroupNode
	instances map[ModelInstanceNodeID]*ModelInstanceNode
	cameras   map[CameraNodeID]*CameraNode

	// stack is a reused scratch buffer for the depth-first transform walk,
	// avoiding a fresh allocation every frame.
	stack []GroupNodeID
}

// NewSceneGraph creates a SceneGraph containing only its root group.
func NewSceneGraph() *SceneGraph {
	g := &SceneGraph{
		groups:    make(map[GroupNodeID]*GroupNode),
		instances: make(map[ModelInstanceNodeID]*ModelInstanceNode),
		cameras:   make(map[CameraNodeID]*CameraNode),
	}
	g.groups[RootGroupNodeID] = newRootGroupNode()
	return g
}

// RootID returns the id of the graph's root group.
func (g *SceneGraph) RootID() GroupNodeID { return RootGroupNodeID }

// NGroupNodes returns the number of group nodes, including the root.
func (g *SceneGraph) NGroupNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.groups)
}

// NModelInstanceNodes returns the number of model-instance nodes.
func (g *SceneGraph) NModelInstanceNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.instances)
}

// NCameraNodes returns the number of camera nodes.
func (g *SceneGraph) NCameraNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cameras)
}

// HasGroupNode reports whether id names a live group node.
func (g *SceneGraph) HasGroupNode(id GroupNodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.groups[id]
	return ok
}

// HasModelInstanceNode reports whether id names a live model-instance node.
func (g *SceneGraph) HasModelInstanceNode(id ModelInstanceNodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.instances[id]
	return ok
}

// HasCameraNode reports whether id names a live camera node.
func (g *SceneGraph) HasCameraNode(id CameraNodeID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.cameras[id]
	return ok
}

// GroupNode returns the group node named by id.
func (g *SceneGraph) GroupNode(id GroupNodeID) (*GroupNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.groups[id]
	return n, ok
}

// ModelInstanceNode returns the model-instance node named by id.
func (g *SceneGraph) ModelInstanceNode(id ModelInstanceNodeID) (*ModelInstanceNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.instances[id]
	return n, ok
}

// CameraNode returns the camera node named by id.
func (g *SceneGraph) CameraNode(id CameraNodeID) (*CameraNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.cameras[id]
	return n, ok
}

// AllModelInstanceNodeIDs iterates every live model-instance node id, in
// map order. Used by frame assembly to build the rendering submission list
// without exposing the underlying map.
func (g *SceneGraph) AllModelInstanceNodeIDs() iter.Seq[ModelInstanceNodeID] {
	g.mu.RLock()
	ids := make([]ModelInstanceNodeID, 0, len(g.instances))
	for id := range g.instances {
		ids = append(ids, id)
	}
	g.mu.RUnlock()

	return func(yield func(ModelInstanceNodeID) bool) {
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

// AllCameraNodeIDs iterates every live camera node id, in map order. Used by
// frame assembly to resync every camera's view transform once per frame.
func (g *SceneGraph) AllCameraNodeIDs() iter.Seq[CameraNodeID] {
	g.mu.RLock()
	ids := make([]CameraNodeID, 0, len(g.cameras))
	for id := range g.cameras {
		ids = append(ids, id)
	}
	g.mu.RUnlock()

	return func(yield func(CameraNodeID) bool) {
		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

// CreateGroupNode attaches a new group node to parent. Fails with
// DuplicateID if id is already in use, or MissingID if parent does not
// exist.
func (g *SceneGraph) CreateGroupNode(parent GroupNodeID, id GroupNodeID, transform geom.Isometry3) (GroupNodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.groups[id]; exists {
		return 0, newDuplicateNodeError("group", uint64(id))
	}
	parentNode, ok := g.groups[parent]
	if !ok {
		return 0, newMissingNodeError("group", uint64(parent))
	}
	g.groups[id] = newGroupNode(parent, transform)
	parentNode.childGroups[id] = struct{}{}
	return id, nil
}

// CreateModelInstanceNode attaches a new model-instance node to parent.
// Fails with DuplicateID, MissingID (as CreateGroupNode), or
// FeatureOrderViolation if renderFeatures/shadowFeatures violate the
// leading-transform-feature precondition.
func (g *SceneGraph) CreateModelInstanceNode(
	parent GroupNodeID,
	id ModelInstanceNodeID,
	transform geom.Similarity3,
	modelID ModelID,
	boundingSphere geom.Sphere,
	renderFeatures, shadowFeatures []InstanceFeatureID,
	flags ModelInstanceFlags,
) (ModelInstanceNodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.instances[id]; exists {
		return 0, newDuplicateNodeError("model instance", uint64(id))
	}
	parentNode, ok := g.groups[parent]
	if !ok {
		return 0, newMissingNodeError("group", uint64(parent))
	}
	if err := validateFeatureOrder(renderFeatures, shadowFeatures); err != nil {
		return 0, err
	}
	g.instances[id] = newModelInstanceNode(parent, transform, modelID, boundingSphere, renderFeatures, shadowFeatures, flags)
	parentNode.childInstances[id] = struct{}{}
	return id, nil
}

// CreateCameraNode attaches a new camera node to parent. Fails with
// DuplicateID or MissingID as CreateGroupNode.
func (g *SceneGraph) CreateCameraNode(parent GroupNodeID, id CameraNodeID, transform geom.Isometry3, cameraID CameraID) (CameraNodeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.cameras[id]; exists {
		return 0, newDuplicateNodeError("camera", uint64(id))
	}
	parentNode, ok := g.groups[parent]
	if !ok {
		return 0, newMissingNodeError("group", uint64(parent))
	}
	g.cameras[id] = newCameraNode(parent, transform, cameraID)
	parentNode.childCameras[id] = struct{}{}
	return id, nil
}

// RemoveGroupNode cascades: it removes every descendant group, model
// instance, and camera before removing id itself, then unlinks id from its
// parent. Fails with StructuralViolation if id is root; a missing, non-root
// id is a silent no-op (idempotent, matching the instance/camera removers).
func (g *SceneGraph) RemoveGroupNode(id GroupNodeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if id == RootGroupNodeID {
		return newRemoveRootError()
	}
	node, ok := g.groups[id]
	if !ok {
		return nil
	}
	g.removeGroupSubtree(id, node)
	if parent, ok := g.groups[node.parentID]; ok {
		delete(parent.childGroups, id)
	}
	return nil
}

// removeGroupSubtree removes id's entire descendant tree, then id itself,
// without touching id's link from its parent (the caller handles that).
func (g *SceneGraph) removeGroupSubtree(id GroupNodeID, node *GroupNode) {
	for childID := range node.childGroups {
		if child, ok := g.groups[childID]; ok {
			g.removeGroupSubtree(childID, child)
		}
	}
	for childID := range node.childInstances {
		delete(g.instances, childID)
	}
	for childID := range node.childCameras {
		delete(g.cameras, childID)
	}
	delete(g.groups, id)
}

// RemoveModelInstanceNode removes id if present and reports its ModelID.
// Idempotent: a missing id is a no-op reporting ok=false.
func (g *SceneGraph) RemoveModelInstanceNode(id ModelInstanceNodeID) (modelID ModelID, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.instances[id]
	if !exists {
		return 0, false
	}
	delete(g.instances, id)
	if parent, ok := g.groups[node.parentID]; ok {
		delete(parent.childInstances, id)
	}
	return node.modelID, true
}

// RemoveCameraNode removes id if present. Idempotent.
func (g *SceneGraph) RemoveCameraNode(id CameraNodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.cameras[id]
	if !exists {
		return
	}
	delete(g.cameras, id)
	if parent, ok := g.groups[node.parentID]; ok {
		delete(parent.childCameras, id)
	}
}

// ClearNodes removes every node except the root group.
func (g *SceneGraph) ClearNodes() {
	g.mu.Lock()
	defer g.mu.Unlock()

	root := newRootGroupNode()
	g.groups = map[GroupNodeID]*GroupNode{RootGroupNodeID: root}
	g.instances = make(map[ModelInstanceNodeID]*ModelInstanceNode)
	g.cameras = make(map[CameraNodeID]*CameraNode)
}

// SetGroupToParentTransform overwrites a group's local-to-parent isometry.
// Silent no-op if id is absent.
func (g *SceneGraph) SetGroupToParentTransform(id GroupNodeID, t geom.Isometry3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.groups[id]; ok {
		n.toParent = t
	}
}

// SetModelToParentTransform overwrites a model instance's local-to-parent
// similarity. Silent no-op if id is absent.
func (g *SceneGraph) SetModelToParentTransform(id ModelInstanceNodeID, t geom.Similarity3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.instances[id]; ok {
		n.toParent = t
	}
}

// SetCameraToParentTransform overwrites a camera's camera-to-parent
// isometry. Silent no-op if id is absent.
func (g *SceneGraph) SetCameraToParentTransform(id CameraNodeID, t geom.Isometry3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n, ok := g.cameras[id]; ok {
		n.toParent = t
	}
}

// UpdateAllGroupToRootTransforms recomputes every group's cached
// local-to-root isometry via a depth-first walk from the root, using g's
// reusable scratch stack. Parents are always resolved before their
// children.
func (g *SceneGraph) UpdateAllGroupToRootTransforms() {
	g.mu.Lock()
	defer g.mu.Unlock()

	root := g.groups[RootGroupNodeID]
	root.toRoot = root.toParent

	g.stack = g.stack[:0]
	g.stack = append(g.stack, RootGroupNodeID)
	for len(g.stack) > 0 {
		last := len(g.stack) - 1
		id := g.stack[last]
		g.stack = g.stack[:last]

		node := g.groups[id]
		for childID := range node.childGroups {
			child := g.groups[childID]
			child.toRoot = node.toRoot.Compose(child.toParent)
			g.stack = append(g.stack, childID)
		}
	}
}

// SyncCameraViewTransform writes camera's composed world-to-camera view
// transform back onto the node. If camera's parent is the root, the view
// transform is the inverse of its camera-to-parent transform directly;
// otherwise it is that inverse composed with the inverse of the parent's
// cached group-to-root transform. Silent no-op if camera is absent.
func (g *SceneGraph) SyncCameraViewTransform(camera CameraNodeID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.cameras[camera]
	if !ok {
		return
	}
	parentToCamera := node.toParent.Inverse()
	if node.parentID == RootGroupNodeID {
		node.viewTransform = parentToCamera
		return
	}
	parent, ok := g.groups[node.parentID]
	if !ok {
		node.viewTransform = parentToCamera
		return
	}
	rootToParent := parent.toRoot.Inverse()
	node.viewTransform = parentToCamera.Compose(rootToParent)
}
