package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionforge/simcore/ecs"
	"github.com/ionforge/simcore/geom"
	"github.com/ionforge/simcore/scene"
	"github.com/ionforge/simcore/scheduler"
	"github.com/ionforge/simcore/voxel"
)

type position struct{ X, Y, Z float64 }
type temperature float64

var (
	positionType    = ecs.NewComponentType[position](1)
	temperatureType = ecs.NewComponentType[temperature](2)
)

type taskLog struct {
	mu    sync.Mutex
	order []scheduler.TaskID
}

func (l *taskLog) record(id scheduler.TaskID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = append(l.order, id)
}

func indexOf(order []scheduler.TaskID, id scheduler.TaskID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

// TestFrameRunEndToEnd exercises every subsystem together in a single
// frame: ECS archetype split and component mutation, scene graph transform
// composition, voxel sphere generation and modification, and scheduler DAG
// execution with tag filtering. Archetype change on component removal and
// single-worker DAG determinism are covered by ecs's and scheduler's own
// package tests.
func TestFrameRunEndToEnd(t *testing.T) {
	world := ecs.NewWorld(1, 2)

	e1, err := world.CreateEntity(ecs.Value[position]{Type: positionType, Value: position{2.5, 3.1, 42.0}})
	require.NoError(t, err)
	e2, err := world.CreateEntity(
		ecs.Value[position]{Type: positionType, Value: position{5.2, 1.3, 0.42}},
		ecs.Value[temperature]{Type: temperatureType, Value: -40.0},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, world.EntityCount())

	arch1, _ := world.ArchetypeOf(e1)
	arch2, _ := world.ArchetypeOf(e2)
	assert.Equal(t, 1, len(arch1.Types()))
	assert.Equal(t, 2, len(arch2.Types()))

	tempPtr, release, ok := ecs.GetComponentForEntityMut(world, e2, temperatureType)
	require.True(t, ok)
	*tempPtr = -10.0
	release()
	gotTemp, ok := ecs.GetComponentForEntity(world, e2, temperatureType)
	require.True(t, ok)
	assert.Equal(t, temperature(-10.0), gotTemp)

	graph := scene.NewSceneGraph()
	group1, err := graph.CreateGroupNode(graph.RootID(), 1, geom.Isometry3{
		Translation: geom.Vec3{X: 2.1, Y: -5.9, Z: 0.01},
		Rotation:    geom.IdentityQuat(),
	})
	require.NoError(t, err)
	group2, err := graph.CreateGroupNode(group1, 2, geom.Isometry3{
		Rotation: geom.QuatFromEuler(0.1, 0.2, 0.3),
	})
	require.NoError(t, err)
	camID, err := graph.CreateCameraNode(group2, 3, geom.IdentityIsometry3(), 100)
	require.NoError(t, err)

	storage := NewFeatureStore(4)
	require.NoError(t, storage.Set(scene.ModelViewTransformFeatureID, []byte("view-bytes")))
	require.NoError(t, storage.Set(scene.ModelLightTransformFeatureID, []byte("light-bytes")))

	_, err = graph.CreateModelInstanceNode(group1, 10, geom.IdentitySimilarity3(), 42, geom.Sphere{Radius: 1},
		[]scene.InstanceFeatureID{scene.ModelViewTransformFeatureID},
		[]scene.InstanceFeatureID{scene.ModelLightTransformFeatureID},
		0,
	)
	require.NoError(t, err)

	obj := voxel.GenerateSphereSDF(6, 1)
	ranges := obj.OccupiedVoxelRanges()
	center := geom.Vec3{
		X: float64(ranges[0].Start+ranges[0].End) / 2,
		Y: float64(ranges[1].Start+ranges[1].End) / 2,
		Z: float64(ranges[2].Start+ranges[2].End) / 2,
	}
	removed := 0
	obj.ModifyVoxelsWithinSphere(geom.Sphere{Center: center, Radius: 2}, func(i, j, k int, distSq float64, v *voxel.Voxel) {
		if !v.Empty {
			v.Empty = true
			removed++
		}
	})
	require.Greater(t, removed, 0)

	log := &taskLog{}
	const tagPhysics scheduler.ExecutionTag = 1

	state := &FrameState{World: world, Graph: graph}
	sched := scheduler.NewTaskScheduler(state, scheduler.Config{WorkerCount: 2})

	mustRegister := func(id scheduler.TaskID, deps []scheduler.TaskID, tags []scheduler.ExecutionTag) {
		require.NoError(t, sched.RegisterTask(scheduler.TaskFunc{
			TaskID:       id,
			Dependencies: deps,
			Tags:         tags,
			Fn: func(ctx context.Context, s any) error {
				log.record(id)
				return nil
			},
		}))
	}
	mustRegister(1, nil, []scheduler.ExecutionTag{tagPhysics})
	mustRegister(2, nil, nil)
	mustRegister(3, []scheduler.TaskID{1}, nil)
	require.NoError(t, sched.CompleteTaskRegistration())

	frame := NewFrame(world, ecs.NewStager(), graph, sched, state, storage)
	frame.TrackVoxelObject(obj)

	out, errs := frame.Run(context.Background(), 7, scheduler.NewExecutionTags())
	assert.Empty(t, errs)

	// Task 1 is tagged "physics" and the execution tag set is empty, so it's
	// skipped, but task 3 (which depends on it) still runs.
	assert.NotContains(t, log.order, scheduler.TaskID(1))
	assert.Contains(t, log.order, scheduler.TaskID(3))
	assert.Greater(t, indexOf(log.order, 3), -1)

	require.Len(t, out.VisibleInstances, 1)
	vi := out.VisibleInstances[0]
	assert.Equal(t, scene.ModelID(42), vi.ModelID)
	assert.Equal(t, []byte("view-bytes"), vi.ModelViewBytes)
	assert.Equal(t, []byte("light-bytes"), vi.ModelLightBytes)

	assert.NotEmpty(t, out.InvalidatedMeshChunkIndices)

	camNode, ok := graph.CameraNode(camID)
	require.True(t, ok)
	worldCamPos := group1Translation()
	back := camNode.ViewTransform().TransformPoint(worldCamPos)
	assert.InDelta(t, 0, back.Length(), 1e-6)
}

func group1Translation() geom.Vec3 {
	return geom.Vec3{X: 2.1, Y: -5.9, Z: 0.01}
}

// TestFrameResolveVoxelConnectedRegionsDetectsSplit asserts Frame exposes
// ResolveVoxelConnectedRegions as an explicit, separately-invoked step: a
// split caused by an edit made between frames is reflected in a tracked
// object's SplitDetector once that method runs.
func TestFrameResolveVoxelConnectedRegionsDetectsSplit(t *testing.T) {
	world := ecs.NewWorld(1, 2)
	graph := scene.NewSceneGraph()
	state := &FrameState{World: world, Graph: graph}
	sched := scheduler.NewTaskScheduler(state, scheduler.Config{WorkerCount: 1})
	require.NoError(t, sched.CompleteTaskRegistration())

	frame := NewFrame(world, ecs.NewStager(), graph, sched, state, NewFeatureStore(1))

	obj := voxel.GenerateSphereSDF(3, 1)
	frame.TrackVoxelObject(obj)

	ranges := obj.OccupiedVoxelRanges()
	midY := float64(ranges[1].Start+ranges[1].End) / 2
	obj.ModifyVoxelsWithinBox(geom.Box{
		Center:      geom.Vec3{X: float64(ranges[0].Start+ranges[0].End) / 2, Y: midY, Z: float64(ranges[2].Start+ranges[2].End) / 2},
		HalfExtents: geom.Vec3{X: 1000, Y: 0.5, Z: 1000},
		Rotation:    geom.IdentityQuat(),
	}, func(i, j, k int, distSq float64, v *voxel.Voxel) {
		v.Empty = true
	})

	out, errs := frame.Run(context.Background(), 1, scheduler.NewExecutionTags())
	assert.Empty(t, errs)
	assert.NotEmpty(t, out.InvalidatedMeshChunkIndices)

	frame.ResolveVoxelConnectedRegions()
	assert.True(t, obj.SplitDetector().Split(voxel.ChunkIndex(0)))
}
