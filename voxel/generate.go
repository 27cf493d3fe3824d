package voxel

import (
	"math"

	"github.com/ionforge/simcore/geom"
)

// GenerateSphereSDF builds a ChunkedVoxelObject approximating a solid sphere
// of the given radius, voxelized at voxelExtent per voxel.
// Chunks entirely inside the sphere become Uniform-filled, chunks entirely
// outside stay Empty, and chunks straddling the surface become NonUniform
// with a per-voxel signed distance to the sphere.
func GenerateSphereSDF(radius, voxelExtent float64) *ChunkedVoxelObject {
	diameterVoxels := int(math.Ceil(2 * radius / voxelExtent))
	gridChunks := (diameterVoxels + ChunkSize - 1) / ChunkSize
	if gridChunks < 1 {
		gridChunks = 1
	}

	obj := newEmptyObject(voxelExtent, [3]int{gridChunks, gridChunks, gridChunks})
	center := geom.Vec3{
		X: float64(gridChunks*ChunkSize) * voxelExtent / 2,
		Y: float64(gridChunks*ChunkSize) * voxelExtent / 2,
		Z: float64(gridChunks*ChunkSize) * voxelExtent / 2,
	}

	for ci := 0; ci < gridChunks; ci++ {
		for cj := 0; cj < gridChunks; cj++ {
			for ck := 0; ck < gridChunks; ck++ {
				chunkIndices := [3]int{ci, cj, ck}
				chunkAABB := obj.computeChunkAABB(chunkIndices)
				chunkIdx := obj.linearChunkIdx(chunkIndices)

				farthest := aabbFarthestDistance(chunkAABB, center)
				nearest := aabbNearestDistance(chunkAABB, center)

				switch {
				case farthest <= radius:
					obj.chunks[chunkIdx] = Chunk{State: ChunkUniform, Uniform: Voxel{Empty: false, Type: 1}}
				case nearest > radius:
					obj.chunks[chunkIdx] = Chunk{State: ChunkEmpty}
				default:
					obj.materializeSphereChunk(chunkIndices, chunkIdx, center, radius)
				}
			}
		}
	}

	obj.updateBoundaryAdjacenciesForRanges([3]Range{
		{Start: 0, End: gridChunks},
		{Start: 0, End: gridChunks},
		{Start: 0, End: gridChunks},
	})
	obj.shrinkOccupiedRanges()
	return obj
}

func (o *ChunkedVoxelObject) materializeSphereChunk(chunkIndices [3]int, chunkIdx ChunkIndex, center geom.Vec3, radius float64) {
	offset := len(o.voxels)
	for range voxelsPerChunk {
		o.voxels = append(o.voxels, Voxel{Empty: true})
	}
	nonEmpty := 0
	base := [3]int{chunkIndices[0] * ChunkSize, chunkIndices[1] * ChunkSize, chunkIndices[2] * ChunkSize}
	segment := o.voxels[offset : offset+voxelsPerChunk]

	for li := 0; li < ChunkSize; li++ {
		for lj := 0; lj < ChunkSize; lj++ {
			for lk := 0; lk < ChunkSize; lk++ {
				i, j, k := base[0]+li, base[1]+lj, base[2]+lk
				p := o.VoxelCenterPosition(i, j, k)
				dist := p.DistanceSquared(center)
				signedDistance := math.Sqrt(dist) - radius
				v := &segment[li*ChunkSize*ChunkSize+lj*ChunkSize+lk]
				if signedDistance <= 0 {
					v.Empty = false
					v.Type = 1
					v.SignedDistance = float32(signedDistance)
					nonEmpty++
				}
			}
		}
	}

	o.chunks[chunkIdx] = Chunk{State: ChunkNonUniform, dataOffset: offset, nonEmptyCount: nonEmpty}
	o.splitDetector.RegisterChunk(chunkIdx)
	o.recomputeChunkAdjacency(&o.chunks[chunkIdx], chunkIndices)
}

// aabbNearestDistance returns the distance from p to its closest point on
// or in b (zero if p is inside b).
func aabbNearestDistance(b geom.AABB, p geom.Vec3) float64 {
	dx := axisGap(p.X, b.Min.X, b.Max.X)
	dy := axisGap(p.Y, b.Min.Y, b.Max.Y)
	dz := axisGap(p.Z, b.Min.Z, b.Max.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func axisGap(v, lo, hi float64) float64 {
	if v < lo {
		return lo - v
	}
	if v > hi {
		return v - hi
	}
	return 0
}

func aabbFarthestDistance(b geom.AABB, p geom.Vec3) float64 {
	dx := math.Max(math.Abs(p.X-b.Min.X), math.Abs(p.X-b.Max.X))
	dy := math.Max(math.Abs(p.Y-b.Min.Y), math.Abs(p.Y-b.Max.Y))
	dz := math.Max(math.Abs(p.Z-b.Min.Z), math.Abs(p.Z-b.Max.Z))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
