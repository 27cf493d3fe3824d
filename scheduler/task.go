package scheduler

import "context"

// TaskID identifies a Task within a TaskScheduler.
type TaskID uint64

// ExecutionTag names a runtime mode a Task may opt into, letting an
// execution call filter the task graph without re-registering anything.
type ExecutionTag uint64

// ExecutionTags is a set of ExecutionTag values passed to an execution call.
type ExecutionTags map[ExecutionTag]struct{}

// NewExecutionTags builds an ExecutionTags set from the given tags.
func NewExecutionTags(tags ...ExecutionTag) ExecutionTags {
	set := make(ExecutionTags, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether tag is present in the set.
func (t ExecutionTags) Has(tag ExecutionTag) bool {
	_, ok := t[tag]
	return ok
}

// Task is a unit of work a TaskScheduler can order and run. Execute receives
// the scheduler's shared external-state handle.
type Task interface {
	ID() TaskID
	DependsOn() []TaskID
	Execute(ctx context.Context, state any) error
	ShouldExecute(tags ExecutionTags) bool
}

// TaskFunc adapts a plain closure into a Task without a bespoke struct per
// task, for the same ergonomic reason ecs.Value/ecs.Values let callers avoid
// writing one-off Component implementations.
type TaskFunc struct {
	TaskID       TaskID
	Dependencies []TaskID
	// Tags is the set of ExecutionTags this task responds to. An empty set
	// means the task always executes, regardless of the tags passed in.
	Tags []ExecutionTag
	Fn   func(ctx context.Context, state any) error
}

func (f TaskFunc) ID() TaskID            { return f.TaskID }
func (f TaskFunc) DependsOn() []TaskID   { return f.Dependencies }
func (f TaskFunc) Execute(ctx context.Context, state any) error { return f.Fn(ctx, state) }

func (f TaskFunc) ShouldExecute(tags ExecutionTags) bool {
	if len(f.Tags) == 0 {
		return true
	}
	for _, tag := range f.Tags {
		if tags.Has(tag) {
			return true
		}
	}
	return false
}
