package pipeline

import (
	"strconv"

	"github.com/ionforge/simcore/cache"
	"github.com/ionforge/simcore/scene"
	"github.com/ionforge/simcore/voxel"
)

// FeatureStore is a concrete scene.FeatureStorage backed by cache.SimpleCache,
// the same bounded string-keyed registry voxel type lookups below use —
// adequate for a single process's GPU-visible transform bytes without a
// bespoke map-plus-mutex type.
type FeatureStore struct {
	cache *cache.SimpleCache[[]byte]
}

// NewFeatureStore creates a FeatureStore that can hold up to capacity
// distinct InstanceFeatureIDs.
func NewFeatureStore(capacity int) *FeatureStore {
	return &FeatureStore{cache: cache.New[[]byte](capacity)}
}

// Set registers or overwrites the transform bytes for id.
func (s *FeatureStore) Set(id scene.InstanceFeatureID, bytes []byte) error {
	_, err := s.cache.Register(strconv.FormatUint(uint64(id), 10), bytes)
	return err
}

// TransformBytes implements scene.FeatureStorage.
func (s *FeatureStore) TransformBytes(id scene.InstanceFeatureID) ([]byte, bool) {
	idx, ok := s.cache.GetIndex(strconv.FormatUint(uint64(id), 10))
	if !ok {
		return nil, false
	}
	return *s.cache.GetItem(idx), true
}

// VoxelTypeRegistry is a concrete voxel.TypeRegistry backed by
// cache.SimpleCache, keyed by the decimal string form of the VoxelType.
type VoxelTypeRegistry struct {
	cache *cache.SimpleCache[voxelTypeEntry]
}

type voxelTypeEntry struct {
	massDensity     float32
	textureArrayIDs [2]uint32
}

// NewVoxelTypeRegistry creates a VoxelTypeRegistry holding up to capacity
// distinct voxel types.
func NewVoxelTypeRegistry(capacity int) *VoxelTypeRegistry {
	return &VoxelTypeRegistry{cache: cache.New[voxelTypeEntry](capacity)}
}

// Register associates a voxel type with its mass density and texture array
// ids.
func (r *VoxelTypeRegistry) Register(t voxel.VoxelType, massDensity float32, textureArrayIDs [2]uint32) error {
	_, err := r.cache.Register(strconv.FormatUint(uint64(t), 10), voxelTypeEntry{massDensity, textureArrayIDs})
	return err
}

// Lookup implements voxel.TypeRegistry.
func (r *VoxelTypeRegistry) Lookup(t voxel.VoxelType) (massDensity float32, textureArrayIDs [2]uint32, ok bool) {
	idx, ok := r.cache.GetIndex(strconv.FormatUint(uint64(t), 10))
	if !ok {
		return 0, [2]uint32{}, false
	}
	entry := r.cache.GetItem(idx)
	return entry.massDensity, entry.textureArrayIDs, true
}
