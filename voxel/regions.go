package voxel

var faceOffsets = [6][3]int{{-1, 0, 0}, {1, 0, 0}, {0, -1, 0}, {0, 1, 0}, {0, 0, -1}, {0, 0, 1}}

// localConnectedRegionCount flood-fills segment (one chunk's packed
// ChunkSize^3 voxels) using only within-chunk six-face adjacency and
// returns how many disjoint non-empty regions it contains. It does not
// see across chunk boundaries, so two regions it reports as separate may
// still be joined through a neighboring chunk; ResolveConnectedRegions
// accounts for that by walking the whole object instead of one chunk.
func localConnectedRegionCount(segment []Voxel) int {
	var visited [voxelsPerChunk]bool
	var stack []int
	count := 0

	for start := 0; start < voxelsPerChunk; start++ {
		if visited[start] || segment[start].Empty {
			continue
		}
		count++
		visited[start] = true
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			li := cur / (ChunkSize * ChunkSize)
			lj := (cur / ChunkSize) % ChunkSize
			lk := cur % ChunkSize

			for _, off := range faceOffsets {
				ni, nj, nk := li+off[0], lj+off[1], lk+off[2]
				if ni < 0 || ni >= ChunkSize || nj < 0 || nj >= ChunkSize || nk < 0 || nk >= ChunkSize {
					continue
				}
				nidx := ni*ChunkSize*ChunkSize + nj*ChunkSize + nk
				if visited[nidx] || segment[nidx].Empty {
					continue
				}
				visited[nidx] = true
				stack = append(stack, nidx)
			}
		}
	}

	return count
}

// ResolveConnectedRegions recomputes every NonUniform chunk's connected-
// region count by flood-filling non-empty voxel adjacency across the
// whole object, superseding the cheaper per-chunk-local counts
// handleChunkVoxelsModified maintains incrementally after each touch. A
// chunk whose voxels end up split across more than one whole-object
// region after this call is a genuine candidate for the owning body to
// divide; SplitDetector.Split reports exactly that once this has run.
//
// This walks every currently-occupied voxel, so it is not called
// automatically by a per-modification method or by a frame's own
// per-frame sequence; callers invoke it explicitly once a batch of
// voxel edits is complete.
func (o *ChunkedVoxelObject) ResolveConnectedRegions() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolveConnectedRegionsLocked()
}

func (o *ChunkedVoxelObject) resolveConnectedRegionsLocked() {
	ranges := o.occupiedVoxelRanges
	if ranges[0].Empty() || ranges[1].Empty() || ranges[2].Empty() {
		return
	}

	dimJ := ranges[1].End - ranges[1].Start
	dimK := ranges[2].End - ranges[2].Start
	linear := func(i, j, k int) int {
		return (i-ranges[0].Start)*dimJ*dimK + (j-ranges[1].Start)*dimK + (k - ranges[2].Start)
	}

	visited := make([]bool, (ranges[0].End-ranges[0].Start)*dimJ*dimK)
	chunkLabels := make(map[ChunkIndex]map[int]struct{})

	type coord struct{ i, j, k int }
	var stack []coord
	label := 0

	for i := ranges[0].Start; i < ranges[0].End; i++ {
		for j := ranges[1].Start; j < ranges[1].End; j++ {
			for k := ranges[2].Start; k < ranges[2].End; k++ {
				if visited[linear(i, j, k)] || o.isVoxelEmptyAt(i, j, k) {
					continue
				}
				label++
				visited[linear(i, j, k)] = true
				stack = append(stack[:0], coord{i, j, k})

				for len(stack) > 0 {
					c := stack[len(stack)-1]
					stack = stack[:len(stack)-1]

					chunkIdx := o.linearChunkIdx([3]int{c.i / ChunkSize, c.j / ChunkSize, c.k / ChunkSize})
					set := chunkLabels[chunkIdx]
					if set == nil {
						set = make(map[int]struct{})
						chunkLabels[chunkIdx] = set
					}
					set[label] = struct{}{}

					for _, off := range faceOffsets {
						ni, nj, nk := c.i+off[0], c.j+off[1], c.k+off[2]
						if ni < ranges[0].Start || ni >= ranges[0].End ||
							nj < ranges[1].Start || nj >= ranges[1].End ||
							nk < ranges[2].Start || nk >= ranges[2].End {
							continue
						}
						if visited[linear(ni, nj, nk)] || o.isVoxelEmptyAt(ni, nj, nk) {
							continue
						}
						visited[linear(ni, nj, nk)] = true
						stack = append(stack, coord{ni, nj, nk})
					}
				}
			}
		}
	}

	for chunkIdx, set := range chunkLabels {
		o.splitDetector.RefreshChunk(chunkIdx, len(set))
	}
}
