package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ionforge/simcore/geom"
	"github.com/ionforge/simcore/simerr"
)

func TestCreateGroupNode(t *testing.T) {
	tests := []struct {
		name      string
		parent    GroupNodeID
		id        GroupNodeID
		seed      func(g *SceneGraph)
		wantKind  simerr.Kind
		wantErr   bool
	}{
		{name: "under root", parent: RootGroupNodeID, id: 1},
		{
			name:   "duplicate id",
			parent: RootGroupNodeID, id: 1,
			seed: func(g *SceneGraph) {
				_, err := g.CreateGroupNode(RootGroupNodeID, 1, geom.IdentityIsometry3())
				require.NoError(t, err)
			},
			wantErr: true, wantKind: simerr.DuplicateID,
		},
		{
			name: "missing parent", parent: 99, id: 1,
			wantErr: true, wantKind: simerr.MissingID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSceneGraph()
			if tt.seed != nil {
				tt.seed(g)
			}
			_, err := g.CreateGroupNode(tt.parent, tt.id, geom.IdentityIsometry3())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, simerr.IsKind(err, tt.wantKind))
				return
			}
			require.NoError(t, err)
			assert.True(t, g.HasGroupNode(tt.id))
		})
	}
}

func TestCreateModelInstanceNodeFeatureOrder(t *testing.T) {
	g := NewSceneGraph()

	_, err := g.CreateModelInstanceNode(
		RootGroupNodeID, 1, geom.IdentitySimilarity3(), ModelID(1), geom.Sphere{Radius: 1},
		[]InstanceFeatureID{ModelViewTransformFeatureID}, []InstanceFeatureID{ModelLightTransformFeatureID},
		0,
	)
	require.NoError(t, err)
	assert.True(t, g.HasModelInstanceNode(1))

	_, err = g.CreateModelInstanceNode(
		RootGroupNodeID, 2, geom.IdentitySimilarity3(), ModelID(1), geom.Sphere{Radius: 1},
		[]InstanceFeatureID{99}, nil,
		0,
	)
	require.Error(t, err)
	assert.True(t, simerr.IsKind(err, simerr.FeatureOrderViolation))

	_, err = g.CreateModelInstanceNode(
		RootGroupNodeID, 3, geom.IdentitySimilarity3(), ModelID(1), geom.Sphere{Radius: 1},
		nil, []InstanceFeatureID{99},
		0,
	)
	require.Error(t, err)
	assert.True(t, simerr.IsKind(err, simerr.FeatureOrderViolation))
}

func TestRemoveGroupNodeCascades(t *testing.T) {
	g := NewSceneGraph()

	a, err := g.CreateGroupNode(RootGroupNodeID, 1, geom.IdentityIsometry3())
	require.NoError(t, err)
	b, err := g.CreateGroupNode(a, 2, geom.IdentityIsometry3())
	require.NoError(t, err)
	_, err = g.CreateModelInstanceNode(b, 1, geom.IdentitySimilarity3(), ModelID(1), geom.Sphere{}, nil, nil, 0)
	require.NoError(t, err)
	_, err = g.CreateCameraNode(b, 1, geom.IdentityIsometry3(), CameraID(1))
	require.NoError(t, err)

	require.NoError(t, g.RemoveGroupNode(a))

	assert.False(t, g.HasGroupNode(a))
	assert.False(t, g.HasGroupNode(b))
	assert.False(t, g.HasModelInstanceNode(1))
	assert.False(t, g.HasCameraNode(1))
	assert.Equal(t, 1, g.NGroupNodes())
}

func TestRemoveRootGroupNodeFails(t *testing.T) {
	g := NewSceneGraph()
	err := g.RemoveGroupNode(RootGroupNodeID)
	require.Error(t, err)
	assert.True(t, simerr.IsKind(err, simerr.StructuralViolation))
}

func TestRemovalIsIdempotent(t *testing.T) {
	g := NewSceneGraph()
	assert.NoError(t, g.RemoveGroupNode(42))

	_, ok := g.RemoveModelInstanceNode(42)
	assert.False(t, ok)

	g.RemoveCameraNode(42) // must not panic
}

func TestUpdateAllGroupToRootTransforms(t *testing.T) {
	g := NewSceneGraph()

	t1 := geom.Isometry3{Rotation: geom.IdentityQuat(), Translation: geom.Vec3{X: 1}}
	t2 := geom.Isometry3{Rotation: geom.IdentityQuat(), Translation: geom.Vec3{X: 2}}

	a, err := g.CreateGroupNode(RootGroupNodeID, 1, t1)
	require.NoError(t, err)
	b, err := g.CreateGroupNode(a, 2, t2)
	require.NoError(t, err)

	g.UpdateAllGroupToRootTransforms()

	aNode, _ := g.GroupNode(a)
	bNode, _ := g.GroupNode(b)

	assert.InDelta(t, 1.0, aNode.ToRoot().Translation.X, 1e-9)
	assert.InDelta(t, 3.0, bNode.ToRoot().Translation.X, 1e-9)
}

func TestSyncCameraViewTransform(t *testing.T) {
	g := NewSceneGraph()

	groupT := geom.Isometry3{Rotation: geom.IdentityQuat(), Translation: geom.Vec3{X: 5}}
	group, err := g.CreateGroupNode(RootGroupNodeID, 1, groupT)
	require.NoError(t, err)
	g.UpdateAllGroupToRootTransforms()

	camT := geom.Isometry3{Rotation: geom.IdentityQuat(), Translation: geom.Vec3{X: 2}}
	cam, err := g.CreateCameraNode(group, 1, camT, CameraID(1))
	require.NoError(t, err)

	g.SyncCameraViewTransform(cam)

	camNode, _ := g.CameraNode(cam)
	// camera world position = group(5) + cam(2) = 7; view transform maps
	// world -> camera space, so it must send the camera's own world point
	// back to the origin.
	worldCamPos := geom.Vec3{X: 7}
	local := camNode.ViewTransform().TransformPoint(worldCamPos)
	assert.InDelta(t, 0, local.X, 1e-9)
}

func TestSetTransformsAreSilentNoOpsWhenAbsent(t *testing.T) {
	g := NewSceneGraph()
	assert.NotPanics(t, func() {
		g.SetGroupToParentTransform(99, geom.IdentityIsometry3())
		g.SetModelToParentTransform(99, geom.IdentitySimilarity3())
		g.SetCameraToParentTransform(99, geom.IdentityIsometry3())
	})
}

func TestClearNodesKeepsRoot(t *testing.T) {
	g := NewSceneGraph()
	_, err := g.CreateGroupNode(RootGroupNodeID, 1, geom.IdentityIsometry3())
	require.NoError(t, err)

	g.ClearNodes()

	assert.Equal(t, 1, g.NGroupNodes())
	assert.True(t, g.HasGroupNode(RootGroupNodeID))
	assert.False(t, g.HasGroupNode(1))
}
