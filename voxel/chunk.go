package voxel

// ChunkSize is the edge length, in voxels, of a single chunk. A NonUniform
// chunk holds ChunkSize*ChunkSize*ChunkSize packed Voxel entries.
const ChunkSize = 8

const voxelsPerChunk = ChunkSize * ChunkSize * ChunkSize

// VoxelType names the material of a non-empty voxel. The mapping from a
// VoxelType to density and texture data is owned by external code (see
// TypeRegistry).
type VoxelType uint8

// SurfacePlacement refines Placement for a voxel known to be on the
// surface, naming which of the six faces are exposed, one bit each.
type SurfacePlacement uint8

const (
	FaceExposedNegX SurfacePlacement = 1 << iota
	FaceExposedPosX
	FaceExposedNegY
	FaceExposedPosY
	FaceExposedNegZ
	FaceExposedPosZ
)

// HasAnyFace reports whether at least one face bit is set, i.e. the voxel
// genuinely sits on the surface (invariant: Surface iff some neighbor is
// empty).
func (p SurfacePlacement) HasAnyFace() bool { return p != 0 }

// Voxel is one element of a NonUniform chunk's packed array, or the shared
// value of a Uniform chunk.
type Voxel struct {
	Empty          bool
	SignedDistance float32
	Type           VoxelType
	Placement      SurfacePlacement
}

// IsSurface reports whether v sits on the exposed surface of the object,
// i.e. whether any of its six face neighbors is empty.
func (v Voxel) IsSurface() bool { return !v.Empty && v.Placement.HasAnyFace() }

// ChunkState classifies a Chunk's storage representation.
type ChunkState int

const (
	ChunkEmpty ChunkState = iota
	ChunkUniform
	ChunkNonUniform
)

func (s ChunkState) String() string {
	switch s {
	case ChunkEmpty:
		return "empty"
	case ChunkUniform:
		return "uniform"
	case ChunkNonUniform:
		return "non-uniform"
	default:
		return "unknown"
	}
}

// Chunk is one cell of the object's chunk grid.
type Chunk struct {
	State ChunkState

	// Uniform holds the single shared voxel value when State is
	// ChunkUniform; every one of the chunk's 512 voxels is bitwise
	// identical to it.
	Uniform Voxel

	// dataOffset indexes the start of this chunk's voxelsPerChunk-length
	// segment in the object's packed voxels slice when State is
	// ChunkNonUniform.
	dataOffset int

	// nonEmptyCount tracks how many of the chunk's voxels are non-empty,
	// used to detect when a NonUniform chunk should demote to Empty.
	nonEmptyCount int
}

// ChunkIndex is a chunk's linear index into the object's chunk slice.
type ChunkIndex int
