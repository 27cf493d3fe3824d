package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionforge/simcore/geom"
)

func TestGenerateSphereSDFHasSurfaceVoxels(t *testing.T) {
	obj := GenerateSphereSDF(4, 1)

	ranges := obj.OccupiedVoxelRanges()
	for _, r := range ranges {
		require.False(t, r.Empty())
	}

	count := 0
	obj.ForEachSurfaceVoxel(func(i, j, k int, v *Voxel, p SurfacePlacement) {
		count++
		assert.True(t, v.IsSurface())
	})
	assert.Greater(t, count, 0)
}

func TestModifyVoxelsWithinSphereCarvesAndInvalidates(t *testing.T) {
	obj := GenerateSphereSDF(6, 1)

	ranges := obj.OccupiedVoxelRanges()
	center := geom.Vec3{
		X: float64(ranges[0].Start+ranges[0].End) / 2,
		Y: float64(ranges[1].Start+ranges[1].End) / 2,
		Z: float64(ranges[2].Start+ranges[2].End) / 2,
	}

	removed := 0
	obj.ModifyVoxelsWithinSphere(geom.Sphere{Center: center, Radius: 2}, func(i, j, k int, distSq float64, v *Voxel) {
		if !v.Empty {
			v.Empty = true
			removed++
		}
	})

	assert.Greater(t, removed, 0)

	invalidated := obj.DrainInvalidatedMeshChunkIndices()
	assert.NotEmpty(t, invalidated)

	// Draining again immediately yields nothing further.
	assert.Empty(t, obj.DrainInvalidatedMeshChunkIndices())
}

func TestModifyVoxelsOutsideObjectIsNoOp(t *testing.T) {
	obj := GenerateSphereSDF(2, 1)
	far := geom.Sphere{Center: geom.Vec3{X: 10000, Y: 10000, Z: 10000}, Radius: 1}

	called := false
	obj.ModifyVoxelsWithinSphere(far, func(i, j, k int, distSq float64, v *Voxel) {
		called = true
	})
	assert.False(t, called)
	assert.Empty(t, obj.DrainInvalidatedMeshChunkIndices())
}

func TestSplitDetectorTracksRegisteredChunks(t *testing.T) {
	d := NewSplitDetector()
	d.RegisterChunk(3)
	assert.Equal(t, 1, d.RegionCount(3))
	assert.False(t, d.Split(3))

	d.RefreshChunk(3, 2)
	assert.True(t, d.Split(3))

	d.ForgetChunk(3)
	assert.Equal(t, 0, d.RegionCount(3))
}

func TestResolveConnectedRegionsDetectsSplitWithinAChunk(t *testing.T) {
	obj := GenerateSphereSDF(3, 1)

	chunkRanges := obj.OccupiedChunkRanges()
	require.Equal(t, 1, chunkRanges[0].End-chunkRanges[0].Start)
	require.Equal(t, 1, chunkRanges[1].End-chunkRanges[1].Start)
	require.Equal(t, 1, chunkRanges[2].End-chunkRanges[2].Start)
	chunkIdx := ChunkIndex(0)

	obj.ResolveConnectedRegions()
	assert.Equal(t, 1, obj.SplitDetector().RegionCount(chunkIdx))
	assert.False(t, obj.SplitDetector().Split(chunkIdx))

	ranges := obj.OccupiedVoxelRanges()
	midY := float64(ranges[1].Start+ranges[1].End) / 2

	slab := geom.Box{
		Center:      geom.Vec3{X: float64(ranges[0].Start+ranges[0].End) / 2, Y: midY, Z: float64(ranges[2].Start+ranges[2].End) / 2},
		HalfExtents: geom.Vec3{X: 1000, Y: 0.5, Z: 1000},
		Rotation:    geom.IdentityQuat(),
	}
	obj.ModifyVoxelsWithinBox(slab, func(i, j, k int, distSq float64, v *Voxel) {
		v.Empty = true
	})

	obj.ResolveConnectedRegions()
	assert.Equal(t, 2, obj.SplitDetector().RegionCount(chunkIdx))
	assert.True(t, obj.SplitDetector().Split(chunkIdx))
}

func TestResolveConnectedRegionsLeavesSingleRegionAfterASmallBite(t *testing.T) {
	obj := GenerateSphereSDF(3, 1)

	ranges := obj.OccupiedVoxelRanges()
	corner := geom.Vec3{X: float64(ranges[0].Start) + 0.5, Y: float64(ranges[1].Start) + 0.5, Z: float64(ranges[2].Start) + 0.5}

	obj.ModifyVoxelsWithinSphere(geom.Sphere{Center: corner, Radius: 1.2}, func(i, j, k int, distSq float64, v *Voxel) {
		v.Empty = true
	})

	obj.ResolveConnectedRegions()
	assert.Equal(t, 1, obj.SplitDetector().RegionCount(ChunkIndex(0)))
	assert.False(t, obj.SplitDetector().Split(ChunkIndex(0)))
}

func TestHandleChunkVoxelsModifiedOnlyInvalidatesNeighborsNearTouchedBoundary(t *testing.T) {
	newSphere := func() *ChunkedVoxelObject { return GenerateSphereSDF(10, 1) }

	chunkDims := newSphere().ChunkGridDims()
	require.Greater(t, chunkDims[0], 1, "sphere of radius 10 must span more than one chunk along X")

	touchAt := func(x float64) int {
		obj := newSphere()
		occupied := obj.OccupiedVoxelRanges()
		center := geom.Vec3{X: x, Y: float64(occupied[1].Start+occupied[1].End)/2 + 0.5, Z: float64(occupied[2].Start+occupied[2].End)/2 + 0.5}
		obj.ModifyVoxelsWithinSphere(geom.Sphere{Center: center, Radius: 0.6}, func(i, j, k int, distSq float64, v *Voxel) {
			v.Empty = true
		})
		return len(obj.DrainInvalidatedMeshChunkIndices())
	}

	occupied := newSphere().OccupiedVoxelRanges()
	midChunkX := float64((occupied[0].Start+occupied[0].End)/2) + 0.5
	nearBoundaryX := float64(ChunkSize) // sits right on a chunk boundary

	// A touch straddling a chunk boundary invalidates the touched chunk and
	// at least one neighbor; a touch deep inside a chunk, away from every
	// boundary, invalidates only its own chunk.
	assert.Greater(t, touchAt(nearBoundaryX), touchAt(midChunkX))
}

func TestChunkRangeEncompassingVoxelRange(t *testing.T) {
	r := chunkRangeEncompassingVoxelRange(Range{Start: 0, End: 10})
	assert.Equal(t, Range{Start: 0, End: 2}, r)

	assert.Equal(t, Range{}, chunkRangeEncompassingVoxelRange(Range{}))
}
