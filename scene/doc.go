/*
Package scene implements the scene graph: a forest of group, model-instance,
and camera nodes rooted at a single Root group, whose transforms compose
from leaves to root each frame.

Basic usage:

	graph := scene.NewSceneGraph()
	group, _ := graph.CreateGroupNode(graph.RootID(), 1, geom.IdentityIsometry3())
	cam, _ := graph.CreateCameraNode(group, 2, geom.IdentityIsometry3(), 100)

	graph.UpdateAllGroupToRootTransforms()
	graph.SyncCameraViewTransform(cam)

scene is a flat, lock-guarded registry over a three-kind node tree: groups
compose transforms depth-first, model instances carry ordered render/shadow
feature-id lists behind an external feature store, and cameras resolve
their view transform against the cached group chain.
*/
package scene
