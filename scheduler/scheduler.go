package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// orderedTask is a Task placed into the scheduler's execution order, with
// its dependency bookkeeping resolved to array indices so the hot path never
// touches the tasks map again.
type orderedTask struct {
	task          Task
	nDependencies int
	dependentIdxs []int // indices, into the same order slice, of tasks that depend on this one
}

// TaskScheduler orders a registered set of Tasks into a dependency-respecting
// execution plan and runs them either synchronously on the calling goroutine
// or across a fixed worker pool.
type TaskScheduler struct {
	mu    sync.Mutex
	tasks map[TaskID]Task
	// registrationOrder preserves insertion order so that, once topologically
	// sorted, ties between independent tasks resolve deterministically:
	// ExecuteOnMainThread's order is reproducible across runs. Execute does
	// not fix the order among ready tasks, even with a single worker.
	registrationOrder []TaskID

	order     []orderedTask
	indexOfID map[TaskID]int
	completed bool

	state any
	cfg   Config
}

// NewTaskScheduler creates a scheduler that executes tasks against the given
// shared external state handle.
func NewTaskScheduler(state any, cfg Config) *TaskScheduler {
	return &TaskScheduler{
		tasks: make(map[TaskID]Task),
		state: state,
		cfg:   cfg,
	}
}

// RegisterTask adds a task to the scheduler. It must be called before
// CompleteTaskRegistration; registering a duplicate ID is an error.
func (s *TaskScheduler) RegisterTask(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.completed {
		return newRegistrationClosedError()
	}
	id := t.ID()
	if _, exists := s.tasks[id]; exists {
		return newDuplicateTaskError(id)
	}
	s.tasks[id] = t
	s.registrationOrder = append(s.registrationOrder, id)
	return nil
}

// CompleteTaskRegistration finalizes the dependency graph: it validates every
// dependency names a registered task, topologically sorts the tasks (Kahn's
// algorithm, independent tasks first in registration order), and rejects the
// graph if it contains a cycle. No further RegisterTask calls are valid after
// this returns successfully.
func (s *TaskScheduler) CompleteTaskRegistration() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inDegree := make(map[TaskID]int, len(s.tasks))
	dependents := make(map[TaskID][]TaskID, len(s.tasks))

	for _, id := range s.registrationOrder {
		t := s.tasks[id]
		deps := t.DependsOn()
		inDegree[id] = len(deps)
		for _, dep := range deps {
			if _, ok := s.tasks[dep]; !ok {
				return newMissingDependencyError(id, dep)
			}
			dependents[dep] = append(dependents[dep], id)
		}
	}

	remaining := make(map[TaskID]int, len(inDegree))
	for id, d := range inDegree {
		remaining[id] = d
	}

	var sorted []TaskID
	queue := make([]TaskID, 0, len(s.registrationOrder))
	for _, id := range s.registrationOrder {
		if remaining[id] == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		for _, dep := range dependents[id] {
			remaining[dep]--
			if remaining[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(sorted) != len(s.tasks) {
		return newCycleDetectedError()
	}

	indexOfID := make(map[TaskID]int, len(sorted))
	for idx, id := range sorted {
		indexOfID[id] = idx
	}

	order := make([]orderedTask, len(sorted))
	for idx, id := range sorted {
		deps := s.tasks[id].DependsOn()
		dependentIdxs := make([]int, 0, len(dependents[id]))
		for _, dep := range dependents[id] {
			dependentIdxs = append(dependentIdxs, indexOfID[dep])
		}
		order[idx] = orderedTask{
			task:          s.tasks[id],
			nDependencies: len(deps),
			dependentIdxs: dependentIdxs,
		}
	}

	s.order = order
	s.indexOfID = indexOfID
	s.completed = true
	return nil
}

// ExecuteOnMainThread runs every registered task, in topological order, on
// the calling goroutine. Tasks whose ShouldExecute(tags) returns false are
// skipped. Execution errors are collected rather than aborting the run, the
// same policy ecs.World.ApplyStaged uses for staged operations.
func (s *TaskScheduler) ExecuteOnMainThread(ctx context.Context, tags ExecutionTags) []error {
	s.mu.Lock()
	order := s.order
	state := s.state
	s.mu.Unlock()

	var errs []error
	for _, ot := range order {
		if !ot.task.ShouldExecute(tags) {
			continue
		}
		if err := ot.task.Execute(ctx, state); err != nil {
			errs = append(errs, newTaskExecutionError(ot.task.ID(), err))
		}
	}
	return errs
}

// Execution is the handle returned by Execute; call WaitUntilDone to block
// for completion and collect aggregated errors.
type Execution struct {
	done chan struct{}

	errMu sync.Mutex
	errs  []error
}

// WaitUntilDone blocks until every task of the execution has run (or been
// skipped) and returns the aggregated execution errors, if any.
func (e *Execution) WaitUntilDone() []error {
	<-e.done
	return e.errs
}

func (e *Execution) recordError(err error) {
	e.errMu.Lock()
	e.errs = append(e.errs, err)
	e.errMu.Unlock()
}

// Execute dispatches every registered task against a pool bounded to
// cfg.WorkerCount concurrent tasks, respecting dependency order. A goroutine
// that finishes a task checks whether that completion unblocks a dependent
// and, if so, continues directly into it without releasing its pool slot —
// a tail-call style continuation that avoids a dispatch round-trip for the
// common case of a single newly-ready dependent. Additional dependents that
// become ready at the same time are
// dispatched as new goroutines gated by the same semaphore. Tasks skipped by
// ShouldExecute still count toward their dependents' readiness.
func (s *TaskScheduler) Execute(ctx context.Context, tags ExecutionTags) *Execution {
	s.mu.Lock()
	order := s.order
	state := s.state
	workers := s.cfg.workerCount()
	s.mu.Unlock()

	n := len(order)
	exec := &Execution{done: make(chan struct{})}
	if n == 0 {
		close(exec.done)
		return exec
	}

	sem := semaphore.NewWeighted(int64(workers))
	var g errgroup.Group
	completedDeps := make([]atomic.Int64, n)

	var dispatch func(idx int)

	run := func(idx int) int {
		ot := order[idx]
		if ot.task.ShouldExecute(tags) {
			if err := ot.task.Execute(ctx, state); err != nil {
				exec.recordError(newTaskExecutionError(ot.task.ID(), err))
			}
		}
		tailIdx := -1
		for _, depIdx := range ot.dependentIdxs {
			if completedDeps[depIdx].Add(1) != int64(order[depIdx].nDependencies) {
				continue
			}
			if tailIdx == -1 {
				tailIdx = depIdx
				continue
			}
			dispatch(depIdx)
		}
		return tailIdx
	}

	dispatch = func(idx int) {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)
			for idx >= 0 {
				idx = run(idx)
			}
			return nil
		})
	}

	for idx, ot := range order {
		if ot.nDependencies == 0 {
			dispatch(idx)
		}
	}

	go func() {
		g.Wait()
		close(exec.done)
	}()

	return exec
}

// ExecuteAndWait is a convenience wrapper over Execute + WaitUntilDone.
func (s *TaskScheduler) ExecuteAndWait(ctx context.Context, tags ExecutionTags) []error {
	return s.Execute(ctx, tags).WaitUntilDone()
}
