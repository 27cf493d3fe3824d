package voxel

import "github.com/ionforge/simcore/geom"

// SurfaceVoxelFunc is invoked for each voxel a read-only traversal visits.
// False positives (voxels outside the shape's true volume) are permitted;
// false negatives are not.
type SurfaceVoxelFunc func(i, j, k int, v *Voxel, placement SurfacePlacement)

// ModifyVoxelFunc mutates the voxel at (i,j,k) in place. distanceSquared is
// the squared distance from the voxel's center to the query shape's
// reference point (the sphere's center, the closest point on the capsule's
// segment, or the box's center). The caller must keep the mutation consistent with the shape's
// interior.
type ModifyVoxelFunc func(i, j, k int, distanceSquared float64, v *Voxel)

// ForEachSurfaceVoxel visits every surface voxel in the object.
func (o *ChunkedVoxelObject) ForEachSurfaceVoxel(f SurfaceVoxelFunc) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	o.forEachSurfaceVoxelInRanges(o.occupiedVoxelRanges, f)
}

// ForEachSurfaceVoxelMaybeIntersectingSphere visits surface voxels that may
// intersect sphere.
func (o *ChunkedVoxelObject) ForEachSurfaceVoxelMaybeIntersectingSphere(sphere geom.Sphere, f SurfaceVoxelFunc) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	o.forEachSurfaceVoxelInRanges(o.voxelRangesTouchingAAB(sphere.AABB()), f)
}

// ForEachSurfaceVoxelMaybeIntersectingCapsule visits surface voxels that may
// intersect capsule.
func (o *ChunkedVoxelObject) ForEachSurfaceVoxelMaybeIntersectingCapsule(capsule geom.Capsule, f SurfaceVoxelFunc) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	o.forEachSurfaceVoxelInRanges(o.voxelRangesTouchingAAB(capsule.AABB()), f)
}

// ForEachSurfaceVoxelMaybeIntersectingBox visits surface voxels that may
// intersect box.
func (o *ChunkedVoxelObject) ForEachSurfaceVoxelMaybeIntersectingBox(box geom.Box, f SurfaceVoxelFunc) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	o.forEachSurfaceVoxelInRanges(o.voxelRangesTouchingAAB(box.AABB()), f)
}

// ForEachSurfaceVoxelMaybeIntersectingNegativeHalfspaceOfPlane visits
// surface voxels that may lie in plane's negative halfspace.
func (o *ChunkedVoxelObject) ForEachSurfaceVoxelMaybeIntersectingNegativeHalfspaceOfPlane(plane geom.Plane, f SurfaceVoxelFunc) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	o.forEachSurfaceVoxelInRanges(o.voxelRangesWithinPlane(plane), f)
}

func (o *ChunkedVoxelObject) forEachSurfaceVoxelInRanges(included [3]Range, f SurfaceVoxelFunc) {
	if included[0].Empty() || included[1].Empty() || included[2].Empty() {
		return
	}
	chunkRanges := [3]Range{
		chunkRangeEncompassingVoxelRange(included[0]),
		chunkRangeEncompassingVoxelRange(included[1]),
		chunkRangeEncompassingVoxelRange(included[2]),
	}
	for ci := chunkRanges[0].Start; ci < chunkRanges[0].End; ci++ {
		for cj := chunkRanges[1].Start; cj < chunkRanges[1].End; cj++ {
			for ck := chunkRanges[2].Start; ck < chunkRanges[2].End; ck++ {
				chunkIndices := [3]int{ci, cj, ck}
				chunk, ok := o.chunkAt(chunkIndices)
				if !ok || chunk.State != ChunkNonUniform {
					continue // surface voxels only ever live in NonUniform chunks
				}
				objRangesInChunk := [3]Range{
					{Start: ci * ChunkSize, End: (ci + 1) * ChunkSize},
					{Start: cj * ChunkSize, End: (cj + 1) * ChunkSize},
					{Start: ck * ChunkSize, End: (ck + 1) * ChunkSize},
				}
				includedInChunk := [3]Range{
					objRangesInChunk[0].clampTo(included[0]),
					objRangesInChunk[1].clampTo(included[1]),
					objRangesInChunk[2].clampTo(included[2]),
				}
				if includedInChunk[0].Empty() || includedInChunk[1].Empty() || includedInChunk[2].Empty() {
					continue
				}
				segment := o.voxels[chunk.dataOffset : chunk.dataOffset+voxelsPerChunk]
				for i := includedInChunk[0].Start; i < includedInChunk[0].End; i++ {
					for j := includedInChunk[1].Start; j < includedInChunk[1].End; j++ {
						for k := includedInChunk[2].Start; k < includedInChunk[2].End; k++ {
							v := &segment[linearVoxelIdxWithinChunk(i, j, k)]
							if v.IsSurface() {
								f(i, j, k, v, v.Placement)
							}
						}
					}
				}
			}
		}
	}
}

// ModifyVoxelsWithinSphere calls modify on every voxel, empty or not, whose
// center lies within sphere. Connected-region resolution is not performed here; call
// ResolveConnectedRegions once after a batch of modifications.
func (o *ChunkedVoxelObject) ModifyVoxelsWithinSphere(sphere geom.Sphere, modify ModifyVoxelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	radiusSq := sphere.Radius * sphere.Radius
	o.modifyVoxelsTouching(sphere.AABB(), func(i, j, k int) (float64, bool) {
		d := o.VoxelCenterPosition(i, j, k).DistanceSquared(sphere.Center)
		return d, d < radiusSq
	}, modify)
}

// ModifyVoxelsWithinCapsule calls modify on every voxel, empty or not, whose
// center lies within capsule.
func (o *ChunkedVoxelObject) ModifyVoxelsWithinCapsule(capsule geom.Capsule, modify ModifyVoxelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modifyVoxelsTouching(capsule.AABB(), func(i, j, k int) (float64, bool) {
		center := o.VoxelCenterPosition(i, j, k)
		if !capsule.ContainsPoint(center) {
			return 0, false
		}
		return closestDistanceSquaredToSegment(center, capsule.A, capsule.B), true
	}, modify)
}

// ModifyVoxelsWithinBox calls modify on every voxel, empty or not, whose
// center lies within box.
func (o *ChunkedVoxelObject) ModifyVoxelsWithinBox(box geom.Box, modify ModifyVoxelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modifyVoxelsTouching(box.AABB(), func(i, j, k int) (float64, bool) {
		center := o.VoxelCenterPosition(i, j, k)
		if !box.ContainsPoint(center) {
			return 0, false
		}
		return center.DistanceSquared(box.Center), true
	}, modify)
}

func closestDistanceSquaredToSegment(p, a, b geom.Vec3) float64 {
	axis := b.Sub(a)
	lenSq := axis.LengthSquared()
	if lenSq == 0 {
		return p.DistanceSquared(a)
	}
	t := p.Sub(a).Dot(axis) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceSquared(a.Add(axis.Scale(t)))
}

// modifyVoxelsTouching runs the shared modify algorithm over the voxel
// ranges touching aab, using test to decide per-voxel
// inclusion and the distance value passed to modify.
func (o *ChunkedVoxelObject) modifyVoxelsTouching(aab geom.AABB, test func(i, j, k int) (distSq float64, included bool), modify ModifyVoxelFunc) {
	touched := o.voxelRangesTouchingAAB(aab)
	if touched[0].Empty() || touched[1].Empty() || touched[2].Empty() {
		return
	}
	touchedChunkRanges := [3]Range{
		chunkRangeEncompassingVoxelRange(touched[0]),
		chunkRangeEncompassingVoxelRange(touched[1]),
		chunkRangeEncompassingVoxelRange(touched[2]),
	}

	removedChunks := false

	for ci := touchedChunkRanges[0].Start; ci < touchedChunkRanges[0].End; ci++ {
		for cj := touchedChunkRanges[1].Start; cj < touchedChunkRanges[1].End; cj++ {
			for ck := touchedChunkRanges[2].Start; ck < touchedChunkRanges[2].End; ck++ {
				chunkIndices := [3]int{ci, cj, ck}
				chunk, ok := o.chunkAt(chunkIndices)
				if !ok || chunk.State == ChunkEmpty {
					continue
				}
				chunkIdx := o.linearChunkIdx(chunkIndices)
				o.promoteToNonUniformIfUniform(chunk, chunkIdx)

				objRangesInChunk := [3]Range{
					{Start: ci * ChunkSize, End: (ci + 1) * ChunkSize},
					{Start: cj * ChunkSize, End: (cj + 1) * ChunkSize},
					{Start: ck * ChunkSize, End: (ck + 1) * ChunkSize},
				}
				touchedInChunk := [3]Range{
					objRangesInChunk[0].clampTo(touched[0]),
					objRangesInChunk[1].clampTo(touched[1]),
					objRangesInChunk[2].clampTo(touched[2]),
				}
				if touchedInChunk[0].Empty() || touchedInChunk[1].Empty() || touchedInChunk[2].Empty() {
					continue
				}

				segment := o.voxels[chunk.dataOffset : chunk.dataOffset+voxelsPerChunk]
				chunkTouched := false

				for i := touchedInChunk[0].Start; i < touchedInChunk[0].End; i++ {
					for j := touchedInChunk[1].Start; j < touchedInChunk[1].End; j++ {
						for k := touchedInChunk[2].Start; k < touchedInChunk[2].End; k++ {
							distSq, included := test(i, j, k)
							if !included {
								continue
							}
							v := &segment[linearVoxelIdxWithinChunk(i, j, k)]
							wasEmpty := v.Empty
							modify(i, j, k, distSq, v)
							if wasEmpty != v.Empty {
								if v.Empty {
									chunk.nonEmptyCount--
								} else {
									chunk.nonEmptyCount++
								}
							}
							chunkTouched = true
						}
					}
				}

				if chunkTouched {
					o.handleChunkVoxelsModified(chunk, chunkIdx, chunkIndices, objRangesInChunk, touchedInChunk, &removedChunks)
				}
			}
		}
	}

	if removedChunks {
		o.shrinkOccupiedRanges()
	}

	o.updateBoundaryAdjacenciesForRanges([3]Range{
		{Start: max(touchedChunkRanges[0].Start-1, 0), End: touchedChunkRanges[0].End},
		{Start: max(touchedChunkRanges[1].Start-1, 0), End: touchedChunkRanges[1].End},
		{Start: max(touchedChunkRanges[2].Start-1, 0), End: touchedChunkRanges[2].End},
	})
}

func (o *ChunkedVoxelObject) promoteToNonUniformIfUniform(chunk *Chunk, chunkIdx ChunkIndex) {
	if chunk.State != ChunkUniform {
		return
	}
	offset := len(o.voxels)
	for range voxelsPerChunk {
		o.voxels = append(o.voxels, chunk.Uniform)
	}
	chunk.dataOffset = offset
	chunk.State = ChunkNonUniform
	if chunk.Uniform.Empty {
		chunk.nonEmptyCount = 0
	} else {
		chunk.nonEmptyCount = voxelsPerChunk
	}
	o.splitDetector.RegisterChunk(chunkIdx)
}

// handleChunkVoxelsModified recomputes adjacency/surface placement and the
// local connected-region count for the chunk's own voxels, demotes it to
// Empty if it has no non-empty voxels left, and marks it mesh-invalidated
// along with any neighbor whose shared boundary lies within 2 voxels of
// the touched range, since recomputed faces near that boundary can change
// the neighbor's own mesh.
func (o *ChunkedVoxelObject) handleChunkVoxelsModified(chunk *Chunk, chunkIdx ChunkIndex, chunkIndices [3]int, objRangesInChunk, touchedInChunk [3]Range, removedChunks *bool) {
	if chunk.nonEmptyCount <= 0 {
		chunk.State = ChunkEmpty
		chunk.Uniform = Voxel{}
		o.splitDetector.ForgetChunk(chunkIdx)
		*removedChunks = true
	} else {
		o.recomputeChunkAdjacency(chunk, chunkIndices)
		segment := o.voxels[chunk.dataOffset : chunk.dataOffset+voxelsPerChunk]
		o.splitDetector.RefreshChunk(chunkIdx, localConnectedRegionCount(segment))
	}
	o.invalidated.Add(chunkIdx)

	for axis := 0; axis < 3; axis++ {
		voxelRange := objRangesInChunk[axis]
		touchedRange := touchedInChunk[axis]

		if chunkIndices[axis] > o.occupiedChunkRanges[axis].Start && touchedRange.Start-voxelRange.Start < 2 {
			lowNeighbor := chunkIndices
			lowNeighbor[axis]--
			if idx, ok := o.chunkIndexIfValid(lowNeighbor); ok {
				o.invalidated.Add(idx)
			}
		}
		if chunkIndices[axis] < o.occupiedChunkRanges[axis].End-1 && voxelRange.End-touchedRange.End < 2 {
			highNeighbor := chunkIndices
			highNeighbor[axis]++
			if idx, ok := o.chunkIndexIfValid(highNeighbor); ok {
				o.invalidated.Add(idx)
			}
		}
	}
}

func (o *ChunkedVoxelObject) chunkIndexIfValid(indices [3]int) (ChunkIndex, bool) {
	for d := 0; d < 3; d++ {
		if indices[d] < 0 || indices[d] >= o.gridSize[d] {
			return 0, false
		}
	}
	return o.linearChunkIdx(indices), true
}

// recomputeChunkAdjacency recomputes each voxel's six-face adjacency and
// surface placement within a single chunk, including the faces shared with
// already-resident neighboring chunks.
func (o *ChunkedVoxelObject) recomputeChunkAdjacency(chunk *Chunk, chunkIndices [3]int) {
	segment := o.voxels[chunk.dataOffset : chunk.dataOffset+voxelsPerChunk]
	offsets := [6][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}}
	bits := [6]SurfacePlacement{FaceExposedNegX, FaceExposedPosX, FaceExposedNegY, FaceExposedPosY, FaceExposedNegZ, FaceExposedPosZ}

	base := [3]int{chunkIndices[0] * ChunkSize, chunkIndices[1] * ChunkSize, chunkIndices[2] * ChunkSize}

	for li := 0; li < ChunkSize; li++ {
		for lj := 0; lj < ChunkSize; lj++ {
			for lk := 0; lk < ChunkSize; lk++ {
				v := &segment[li*ChunkSize*ChunkSize+lj*ChunkSize+lk]
				if v.Empty {
					v.Placement = 0
					continue
				}
				var placement SurfacePlacement
				for f, off := range offsets {
					ni, nj, nk := li+off[0], lj+off[1], lk+off[2]
					var neighborEmpty bool
					if ni < 0 || ni >= ChunkSize || nj < 0 || nj >= ChunkSize || nk < 0 || nk >= ChunkSize {
						neighborEmpty = o.isVoxelEmptyAt(base[0]+ni, base[1]+nj, base[2]+nk)
					} else {
						neighborEmpty = segment[ni*ChunkSize*ChunkSize+nj*ChunkSize+nk].Empty
					}
					if neighborEmpty {
						placement |= bits[f]
					}
				}
				v.Placement = placement
			}
		}
	}
}

func (o *ChunkedVoxelObject) isVoxelEmptyAt(i, j, k int) bool {
	if i < 0 || j < 0 || k < 0 {
		return true
	}
	ci, cj, ck := i/ChunkSize, j/ChunkSize, k/ChunkSize
	chunk, ok := o.chunkAt([3]int{ci, cj, ck})
	if !ok {
		return true
	}
	switch chunk.State {
	case ChunkEmpty:
		return true
	case ChunkUniform:
		return chunk.Uniform.Empty
	default:
		segment := o.voxels[chunk.dataOffset : chunk.dataOffset+voxelsPerChunk]
		return segment[linearVoxelIdxWithinChunk(i, j, k)].Empty
	}
}

// updateBoundaryAdjacenciesForRanges recomputes adjacency for every
// NonUniform chunk in the given chunk-index ranges, so faces bordering
// neighbors outside the originally-touched region stay consistent.
func (o *ChunkedVoxelObject) updateBoundaryAdjacenciesForRanges(ranges [3]Range) {
	for ci := ranges[0].Start; ci < ranges[0].End && ci < o.gridSize[0]; ci++ {
		for cj := ranges[1].Start; cj < ranges[1].End && cj < o.gridSize[1]; cj++ {
			for ck := ranges[2].Start; ck < ranges[2].End && ck < o.gridSize[2]; ck++ {
				indices := [3]int{ci, cj, ck}
				chunk, ok := o.chunkAt(indices)
				if !ok || chunk.State != ChunkNonUniform {
					continue
				}
				o.recomputeChunkAdjacency(chunk, indices)
			}
		}
	}
}
