package pipeline

import (
	"github.com/ionforge/simcore/scene"
	"github.com/ionforge/simcore/voxel"
)

// VisibleInstance is one model instance's rendering submission for a frame:
// its resolved model-view and, if present, model-light transform bytes.
type VisibleInstance struct {
	InstanceID      scene.ModelInstanceNodeID
	ModelID         scene.ModelID
	ModelViewBytes  []byte
	ModelLightBytes []byte
}

// FrameOutput is the payload a frame hands to the external rendering and
// mesh-generation collaborators.
type FrameOutput struct {
	VisibleInstances            []VisibleInstance
	InvalidatedMeshChunkIndices []voxel.ChunkIndex
}
