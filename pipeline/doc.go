/*
Package pipeline wires the ecs, scene, voxel, and scheduler packages into a
single per-frame sequence: staged entity operations apply, registered
systems run under the task scheduler, the scene graph's transforms
recompose, voxel objects surface their invalidated mesh chunks, and the
frame's rendering submission list is assembled against a caller-supplied
scene.FeatureStorage.

Basic usage:

	state := &pipeline.FrameState{World: world, Graph: graph}
	sched := scheduler.NewTaskScheduler(state, scheduler.DefaultConfig())
	frame := pipeline.NewFrame(world, stager, graph, sched, state, featureStorage)
	frame.TrackVoxelObject(obj)
	out, errs := frame.Run(ctx, frameNumber, tags)

The "queue drains into the system, errors aggregate" idiom each of its five
steps follows is the same one ecs.Stager and scheduler.TaskScheduler use on
their own, generalized here to a five-step frame rather than a single
queue.
*/
package pipeline
