package voxel

// Range is a half-open integer index range [Start, End).
type Range struct {
	Start, End int
}

func (r Range) Empty() bool { return r.Start >= r.End }

func (r Range) clampTo(bound Range) Range {
	out := Range{Start: max(r.Start, bound.Start), End: min(r.End, bound.End)}
	if out.Empty() {
		return Range{}
	}
	return out
}

// chunkRangeEncompassingVoxelRange maps a voxel-index range to the range of
// chunk indices that fully cover it.
func chunkRangeEncompassingVoxelRange(r Range) Range {
	if r.Empty() {
		return Range{}
	}
	return Range{
		Start: r.Start / ChunkSize,
		End:   (r.End-1)/ChunkSize + 1,
	}
}
