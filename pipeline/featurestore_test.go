package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionforge/simcore/scene"
	"github.com/ionforge/simcore/voxel"
)

func TestFeatureStoreRoundTrip(t *testing.T) {
	store := NewFeatureStore(2)

	_, ok := store.TransformBytes(scene.ModelViewTransformFeatureID)
	assert.False(t, ok)

	require.NoError(t, store.Set(scene.ModelViewTransformFeatureID, []byte{1, 2, 3}))
	got, ok := store.TransformBytes(scene.ModelViewTransformFeatureID)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestVoxelTypeRegistryRoundTrip(t *testing.T) {
	registry := NewVoxelTypeRegistry(2)

	_, _, ok := registry.Lookup(voxel.VoxelType(1))
	assert.False(t, ok)

	require.NoError(t, registry.Register(voxel.VoxelType(1), 2.5, [2]uint32{7, 8}))
	mass, textures, ok := registry.Lookup(voxel.VoxelType(1))
	require.True(t, ok)
	assert.Equal(t, float32(2.5), mass)
	assert.Equal(t, [2]uint32{7, 8}, textures)
}
