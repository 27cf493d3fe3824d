package scheduler

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	mu    sync.Mutex
	order []TaskID
}

func (s *counterState) record(id TaskID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, id)
}

func recordTask(id TaskID, deps ...TaskID) TaskFunc {
	return TaskFunc{
		TaskID:       id,
		Dependencies: deps,
		Fn: func(ctx context.Context, state any) error {
			state.(*counterState).record(id)
			return nil
		},
	}
}

func indexOf(order []TaskID, id TaskID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return -1
}

// TestExecuteRespectsDependencyOrderWithTwoWorkers asserts that, with a
// 2-worker pool, every task still runs exactly once and after all of its
// dependencies.
func TestExecuteRespectsDependencyOrderWithTwoWorkers(t *testing.T) {
	state := &counterState{}
	sched := NewTaskScheduler(state, Config{WorkerCount: 2})

	require.NoError(t, sched.RegisterTask(recordTask(1)))
	require.NoError(t, sched.RegisterTask(recordTask(2)))
	require.NoError(t, sched.RegisterTask(recordTask(3, 1, 2)))
	require.NoError(t, sched.RegisterTask(recordTask(4, 3)))
	require.NoError(t, sched.CompleteTaskRegistration())

	errs := sched.ExecuteAndWait(context.Background(), NewExecutionTags())
	assert.Empty(t, errs)

	require.Len(t, state.order, 4)
	idx3, idx4 := indexOf(state.order, 3), indexOf(state.order, 4)
	assert.Less(t, indexOf(state.order, 1), idx3)
	assert.Less(t, indexOf(state.order, 2), idx3)
	assert.Less(t, idx3, idx4)
}

// TestExecutionTagsSkipWhileDependentsStillWait asserts a skipped task
// still unblocks dependents waiting on it.
func TestExecutionTagsSkipWhileDependentsStillWait(t *testing.T) {
	const tagA ExecutionTag = 1

	state := &counterState{}
	sched := NewTaskScheduler(state, Config{WorkerCount: 2})

	taggedOut := TaskFunc{
		TaskID: 1,
		Tags:   []ExecutionTag{tagA},
		Fn: func(ctx context.Context, state any) error {
			state.(*counterState).record(1)
			return nil
		},
	}
	require.NoError(t, sched.RegisterTask(taggedOut))
	require.NoError(t, sched.RegisterTask(recordTask(2, 1)))
	require.NoError(t, sched.CompleteTaskRegistration())

	errs := sched.ExecuteAndWait(context.Background(), NewExecutionTags())
	assert.Empty(t, errs)

	assert.NotContains(t, state.order, TaskID(1))
	assert.Contains(t, state.order, TaskID(2))
}

func TestCompleteTaskRegistrationDetectsCycle(t *testing.T) {
	sched := NewTaskScheduler(nil, Config{})
	require.NoError(t, sched.RegisterTask(recordTask(1, 2)))
	require.NoError(t, sched.RegisterTask(recordTask(2, 1)))

	err := sched.CompleteTaskRegistration()
	require.Error(t, err)
}

func TestCompleteTaskRegistrationDetectsMissingDependency(t *testing.T) {
	sched := NewTaskScheduler(nil, Config{})
	require.NoError(t, sched.RegisterTask(recordTask(1, 99)))

	err := sched.CompleteTaskRegistration()
	require.Error(t, err)
}

func TestRegisterTaskRejectsDuplicateID(t *testing.T) {
	sched := NewTaskScheduler(nil, Config{})
	require.NoError(t, sched.RegisterTask(recordTask(1)))
	err := sched.RegisterTask(recordTask(1))
	require.Error(t, err)
}

func TestExecuteOnMainThreadIsSequentialAndOrdered(t *testing.T) {
	state := &counterState{}
	sched := NewTaskScheduler(state, Config{})
	require.NoError(t, sched.RegisterTask(recordTask(1)))
	require.NoError(t, sched.RegisterTask(recordTask(2, 1)))
	require.NoError(t, sched.RegisterTask(recordTask(3, 2)))
	require.NoError(t, sched.CompleteTaskRegistration())

	errs := sched.ExecuteOnMainThread(context.Background(), NewExecutionTags())
	assert.Empty(t, errs)
	assert.Equal(t, []TaskID{1, 2, 3}, state.order)
}

func TestExecuteAggregatesTaskErrors(t *testing.T) {
	state := &counterState{}
	sched := NewTaskScheduler(state, Config{WorkerCount: 2})
	failing := TaskFunc{TaskID: 1, Fn: func(ctx context.Context, state any) error {
		return assert.AnError
	}}
	require.NoError(t, sched.RegisterTask(failing))
	require.NoError(t, sched.RegisterTask(recordTask(2, 1)))
	require.NoError(t, sched.CompleteTaskRegistration())

	errs := sched.ExecuteAndWait(context.Background(), NewExecutionTags())
	require.Len(t, errs, 1)
}
