/*
Package scheduler orders a registered set of Tasks by their declared
dependencies and runs them either synchronously, in topological order, or
across a fixed worker pool that respects the same ordering.

Basic usage:

	sched := scheduler.NewTaskScheduler(sharedState, scheduler.DefaultConfig())
	sched.RegisterTask(scheduler.TaskFunc{TaskID: 1, Fn: stepPhysics})
	sched.RegisterTask(scheduler.TaskFunc{TaskID: 2, Dependencies: []scheduler.TaskID{1}, Fn: stepCollision})
	if err := sched.CompleteTaskRegistration(); err != nil {
		// cycle or missing dependency
	}
	errs := sched.ExecuteAndWait(ctx, scheduler.NewExecutionTags())

scheduler follows the same registry-and-error-aggregation idiom as
ecs.World.ApplyStaged's "collect, don't abort" policy, applied to a
task-graph scheduler instead of a staged-operation queue: tasks declare
dependencies once at registration time, the scheduler resolves them into a
topological order with Kahn's algorithm, and ExecutionTags let a caller
skip whole subsets of the graph per frame without re-registering anything.
*/
package scheduler
