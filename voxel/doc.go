/*
Package voxel implements a chunked signed-distance voxel object: a 3D grid
of fixed-edge chunks, each Empty, Uniform, or NonUniform, queried by shape
(sphere, plane, capsule, box) and destructively modified within a sphere,
capsule, or box (there is no plane-halfspace modification), without
materializing storage for regions that are uniformly empty or filled.

Basic usage:

	obj := voxel.GenerateSphereSDF(20, 1)

	obj.ForEachSurfaceVoxelMaybeIntersectingSphere(geom.Sphere{Radius: 5}, func(i, j, k int, v *voxel.Voxel, p voxel.SurfacePlacement) {
		// read-only surface traversal
	})

	obj.ModifyVoxelsWithinSphere(geom.Sphere{Center: geom.Vec3{}, Radius: 5}, func(i, j, k int, distSq float64, v *voxel.Voxel) {
		v.Empty = true
	})

	invalidated := obj.DrainInvalidatedMeshChunkIndices()
	for _, idx := range invalidated {
		_ = idx // regenerate the chunk's mesh
	}

	obj.ResolveConnectedRegions() // once per batch of edits, not per edit
	for _, idx := range invalidated {
		if obj.SplitDetector().Split(idx) {
			// candidate for the owning body to divide
		}
	}

voxel ports the object's chunk-range/voxel-range traversal algorithm from a
real-time engine's chunked-voxel intersection module: surface voxels only
ever live in NonUniform chunks, and every modification re-derives adjacency,
obscuredness, and mesh-invalidation state for the touched chunks rather than
the whole object.
*/
package voxel
