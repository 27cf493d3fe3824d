package pipeline

import (
	"context"
	"sync"

	"github.com/ionforge/simcore/ecs"
	"github.com/ionforge/simcore/scene"
	"github.com/ionforge/simcore/scheduler"
	"github.com/ionforge/simcore/voxel"
)

// FrameState is the shared external-state handle systems registered with a
// Frame's scheduler execute against. Embedding World, Graph, and FrameNumber
// lets a scheduler.TaskFunc close over nothing but the typed state
// parameter it receives.
type FrameState struct {
	World *ecs.World
	Graph *scene.SceneGraph

	// FrameNumber is the current frame's counter, used for
	// scene.ModelInstanceNode.MarkVisible bookkeeping.
	FrameNumber uint64
}

// Frame orchestrates one pass of a frame's data flow: staged entity
// operations apply to World, registered systems run under the task
// scheduler, the scene graph's transforms recompose, tracked voxel objects
// surface their invalidated mesh chunks, and the rendering submission list
// is assembled.
type Frame struct {
	world   *ecs.World
	stager  *ecs.Stager
	graph   *scene.SceneGraph
	sched   *scheduler.TaskScheduler
	storage scene.FeatureStorage
	state   *FrameState

	mu     sync.Mutex
	voxels []*voxel.ChunkedVoxelObject
}

// NewFrame builds a Frame over the given subsystems. sched must have been
// constructed against the same *FrameState passed here as state (so
// registered scheduler.TaskFuncs see World/Graph/FrameNumber through their
// state any parameter), and must already have had
// CompleteTaskRegistration called on it. storage resolves model instances'
// feature ids to GPU-visible transform bytes.
func NewFrame(world *ecs.World, stager *ecs.Stager, graph *scene.SceneGraph, sched *scheduler.TaskScheduler, state *FrameState, storage scene.FeatureStorage) *Frame {
	return &Frame{
		world:   world,
		stager:  stager,
		graph:   graph,
		sched:   sched,
		storage: storage,
		state:   state,
	}
}

// TrackVoxelObject registers obj so its invalidated mesh chunk indices are
// drained and reported in every subsequent frame's output.
func (f *Frame) TrackVoxelObject(obj *voxel.ChunkedVoxelObject) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voxels = append(f.voxels, obj)
}

// ResolveVoxelConnectedRegions recomputes cross-chunk connected-region
// counts for every tracked voxel object. Run does not call this itself:
// voxel.ChunkedVoxelObject.ResolveConnectedRegions walks every occupied
// voxel in the object, so paying that cost on every frame regardless of
// whether any voxels changed would be wasted work. Callers that stage
// voxel edits through a frame's systems call this once those edits are
// done for the frame, typically right before Run.
func (f *Frame) ResolveVoxelConnectedRegions() {
	f.mu.Lock()
	objs := append([]*voxel.ChunkedVoxelObject(nil), f.voxels...)
	f.mu.Unlock()
	for _, obj := range objs {
		obj.ResolveConnectedRegions()
	}
}

// Run executes one frame: apply staged entity operations, run the scheduled
// systems under tags, recompose the scene graph's transforms, drain every
// tracked voxel object's invalidated mesh chunks, and assemble the
// rendering submission list. Errors from every step are aggregated rather
// than aborting the frame, the same policy ecs.World.ApplyStaged and
// scheduler.TaskScheduler.ExecuteOnMainThread use for their own steps.
func (f *Frame) Run(ctx context.Context, frameNumber uint64, tags scheduler.ExecutionTags) (FrameOutput, []error) {
	var errs []error

	if stageErrs := f.world.ApplyStaged(f.stager); len(stageErrs) > 0 {
		errs = append(errs, stageErrs...)
	}

	f.state.FrameNumber = frameNumber
	if sysErrs := f.sched.ExecuteOnMainThread(ctx, tags); len(sysErrs) > 0 {
		errs = append(errs, sysErrs...)
	}

	f.graph.UpdateAllGroupToRootTransforms()
	for camID := range f.graph.AllCameraNodeIDs() {
		f.graph.SyncCameraViewTransform(camID)
	}

	var invalidated []voxel.ChunkIndex
	f.mu.Lock()
	objs := append([]*voxel.ChunkedVoxelObject(nil), f.voxels...)
	f.mu.Unlock()
	for _, obj := range objs {
		invalidated = append(invalidated, obj.DrainInvalidatedMeshChunkIndices()...)
	}

	visible := f.assembleVisibleInstances(frameNumber)

	return FrameOutput{
		VisibleInstances:            visible,
		InvalidatedMeshChunkIndices: invalidated,
	}, errs
}

func (f *Frame) assembleVisibleInstances(frameNumber uint64) []VisibleInstance {
	var out []VisibleInstance
	for id := range f.graph.AllModelInstanceNodeIDs() {
		node, ok := f.graph.ModelInstanceNode(id)
		if !ok {
			continue
		}
		if node.Flags().Has(scene.FlagHidden) {
			continue
		}

		var modelView, modelLight []byte
		if renderBytes, ok := node.RenderFeatures(f.storage); ok && len(renderBytes) > 0 {
			modelView = renderBytes[0]
		}
		if !node.Flags().Has(scene.FlagNoShadow) {
			if shadowBytes, ok := node.ShadowFeatures(f.storage); ok && len(shadowBytes) > 0 {
				modelLight = shadowBytes[0]
			}
		}

		node.MarkVisible(frameNumber)
		out = append(out, VisibleInstance{
			InstanceID:      id,
			ModelID:         node.ModelID(),
			ModelViewBytes:  modelView,
			ModelLightBytes: modelLight,
		})
	}
	return out
}
