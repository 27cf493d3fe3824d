package voxel

import (
	"sync"

	"github.com/ionforge/simcore/geom"
)

// TypeRegistry resolves a VoxelType to the external properties consumers
// attach to it: mass density for inertial-property computation and the
// texture array indices the renderer samples.
type TypeRegistry interface {
	Lookup(VoxelType) (massDensity float32, textureArrayIDs [2]uint32, ok bool)
}

// ChunkedVoxelObject is a 3D grid of fixed-edge chunks holding a signed
// distance field. Modification takes the object's lock exclusively and
// read-only traversals take it shared; concurrent modification of disjoint regions is not supported by
// this type's own locking — object-level sharding is left to the caller.
type ChunkedVoxelObject struct {
	mu sync.RWMutex

	voxelExtent float64
	gridSize    [3]int // number of chunks along each axis

	chunks []Chunk
	voxels []Voxel // packed storage for all NonUniform chunks' segments

	occupiedVoxelRanges [3]Range
	occupiedChunkRanges [3]Range

	splitDetector *SplitDetector
	invalidated   *chunkSet
}

// newEmptyObject allocates a ChunkedVoxelObject of the given chunk-grid
// dimensions with every chunk Empty.
func newEmptyObject(voxelExtent float64, gridSize [3]int) *ChunkedVoxelObject {
	n := gridSize[0] * gridSize[1] * gridSize[2]
	return &ChunkedVoxelObject{
		voxelExtent:   voxelExtent,
		gridSize:      gridSize,
		chunks:        make([]Chunk, n),
		splitDetector: NewSplitDetector(),
		invalidated:   newChunkSet(),
	}
}

// VoxelExtent returns the world-space edge length of one voxel.
func (o *ChunkedVoxelObject) VoxelExtent() float64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.voxelExtent
}

// OccupiedVoxelRanges returns the per-axis voxel-index bounds of the
// object's non-empty chunks. The bounds are whole chunks, so they are not
// tight to the non-empty voxels inside those chunks.
func (o *ChunkedVoxelObject) OccupiedVoxelRanges() [3]Range {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.occupiedVoxelRanges
}

// OccupiedChunkRanges returns the per-axis chunk-index bounds of the
// object's non-empty region.
func (o *ChunkedVoxelObject) OccupiedChunkRanges() [3]Range {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.occupiedChunkRanges
}

// DrainInvalidatedMeshChunkIndices returns, in the order they were
// invalidated, every chunk index whose mesh needs regenerating, and clears
// the tracked set.
func (o *ChunkedVoxelObject) DrainInvalidatedMeshChunkIndices() []ChunkIndex {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.invalidated.Drain()
}

// SplitDetector exposes the object's connected-region tracker.
func (o *ChunkedVoxelObject) SplitDetector() *SplitDetector {
	return o.splitDetector
}

// ChunkGridDims returns the number of chunks along each axis.
func (o *ChunkedVoxelObject) ChunkGridDims() [3]int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.gridSize
}

func (o *ChunkedVoxelObject) linearChunkIdx(indices [3]int) ChunkIndex {
	return ChunkIndex(indices[0]*o.gridSize[1]*o.gridSize[2] + indices[1]*o.gridSize[2] + indices[2])
}

func (o *ChunkedVoxelObject) chunkAt(indices [3]int) (*Chunk, bool) {
	for d := 0; d < 3; d++ {
		if indices[d] < 0 || indices[d] >= o.gridSize[d] {
			return nil, false
		}
	}
	idx := o.linearChunkIdx(indices)
	return &o.chunks[idx], true
}

// voxelCenterPosition returns the object-space position of the center of
// the voxel at the given indices.
func voxelCenterPosition(voxelExtent float64, i, j, k int) geom.Vec3 {
	return geom.Vec3{
		X: (float64(i) + 0.5) * voxelExtent,
		Y: (float64(j) + 0.5) * voxelExtent,
		Z: (float64(k) + 0.5) * voxelExtent,
	}
}

// voxelAABB returns the axis-aligned box spanned by the voxel at the given
// indices.
func voxelAABB(voxelExtent float64, i, j, k int) geom.AABB {
	min := geom.Vec3{X: float64(i) * voxelExtent, Y: float64(j) * voxelExtent, Z: float64(k) * voxelExtent}
	max := geom.Vec3{X: float64(i+1) * voxelExtent, Y: float64(j+1) * voxelExtent, Z: float64(k+1) * voxelExtent}
	return geom.AABB{Min: min, Max: max}
}

// VoxelCenterPosition is the exported form of voxelCenterPosition, using o's
// own voxel extent.
func (o *ChunkedVoxelObject) VoxelCenterPosition(i, j, k int) geom.Vec3 {
	return voxelCenterPosition(o.voxelExtent, i, j, k)
}

// VoxelAABB is the exported form of voxelAABB, using o's own voxel extent.
func (o *ChunkedVoxelObject) VoxelAABB(i, j, k int) geom.AABB {
	return voxelAABB(o.voxelExtent, i, j, k)
}

// voxelRangesTouchingAAB clamps aab to voxel-index space and intersects
// with bound.
func voxelRangesTouchingAAB(voxelExtent float64, bound [3]Range, aab geom.AABB) [3]Range {
	lo := [3]float64{aab.Min.X, aab.Min.Y, aab.Min.Z}
	hi := [3]float64{aab.Max.X, aab.Max.Y, aab.Max.Z}
	var out [3]Range
	for d := 0; d < 3; d++ {
		start := int(lo[d] / voxelExtent)
		end := int(hi[d]/voxelExtent) + 1
		out[d] = Range{Start: start, End: end}.clampTo(bound[d])
	}
	return out
}

// voxelRangesTouchingAAB is the method form, clamped against the object's
// occupied voxel range.
func (o *ChunkedVoxelObject) voxelRangesTouchingAAB(aab geom.AABB) [3]Range {
	return voxelRangesTouchingAAB(o.voxelExtent, o.occupiedVoxelRanges, aab)
}

// voxelRangesWithinPlane returns the voxel-index ranges that may contain
// voxels on the negative-halfspace side of plane. Clipping a box by an
// arbitrary-orientation plane yields a tight range only via a per-axis
// support-point computation; since false positives in surface traversal are
// acceptable (only false negatives would be a correctness defect), this
// conservatively returns the object's full occupied range whenever the
// object's bounding box is not already entirely on one side of the plane.
func (o *ChunkedVoxelObject) voxelRangesWithinPlane(plane geom.Plane) [3]Range {
	objAABB := o.boundingAABB()
	for _, corner := range objAABB.Corners() {
		if plane.SignedDistance(corner) <= 0 {
			return o.occupiedVoxelRanges
		}
	}
	// Every corner strictly on the positive side: no occupied voxel can be
	// in the negative halfspace.
	return [3]Range{}
}

func (o *ChunkedVoxelObject) boundingAABB() geom.AABB {
	r := o.occupiedVoxelRanges
	return geom.AABB{
		Min: geom.Vec3{X: float64(r[0].Start) * o.voxelExtent, Y: float64(r[1].Start) * o.voxelExtent, Z: float64(r[2].Start) * o.voxelExtent},
		Max: geom.Vec3{X: float64(r[0].End) * o.voxelExtent, Y: float64(r[1].End) * o.voxelExtent, Z: float64(r[2].End) * o.voxelExtent},
	}
}

func (o *ChunkedVoxelObject) computeChunkAABB(indices [3]int) geom.AABB {
	e := o.voxelExtent
	lo := geom.Vec3{X: float64(indices[0]*ChunkSize) * e, Y: float64(indices[1]*ChunkSize) * e, Z: float64(indices[2]*ChunkSize) * e}
	hi := geom.Vec3{X: float64((indices[0]+1)*ChunkSize) * e, Y: float64((indices[1]+1)*ChunkSize) * e, Z: float64((indices[2]+1)*ChunkSize) * e}
	return geom.AABB{Min: lo, Max: hi}
}

func linearVoxelIdxWithinChunk(i, j, k int) int {
	li, lj, lk := i%ChunkSize, j%ChunkSize, k%ChunkSize
	return li*ChunkSize*ChunkSize + lj*ChunkSize + lk
}

func (o *ChunkedVoxelObject) shrinkOccupiedRanges() {
	var lo, hi [3]int
	for d := 0; d < 3; d++ {
		lo[d] = -1
		hi[d] = -1
	}
	for ci := 0; ci < o.gridSize[0]; ci++ {
		for cj := 0; cj < o.gridSize[1]; cj++ {
			for ck := 0; ck < o.gridSize[2]; ck++ {
				c := o.chunks[o.linearChunkIdx([3]int{ci, cj, ck})]
				if c.State == ChunkEmpty {
					continue
				}
				idx := [3]int{ci, cj, ck}
				for d := 0; d < 3; d++ {
					if lo[d] == -1 || idx[d] < lo[d] {
						lo[d] = idx[d]
					}
					if hi[d] == -1 || idx[d] > hi[d] {
						hi[d] = idx[d]
					}
				}
			}
		}
	}
	if lo[0] == -1 {
		o.occupiedChunkRanges = [3]Range{}
		o.occupiedVoxelRanges = [3]Range{}
		return
	}
	for d := 0; d < 3; d++ {
		o.occupiedChunkRanges[d] = Range{Start: lo[d], End: hi[d] + 1}
		o.occupiedVoxelRanges[d] = Range{Start: lo[d] * ChunkSize, End: (hi[d] + 1) * ChunkSize}
	}
}
