package scheduler

import (
	"github.com/ionforge/simcore/simerr"
)

func newDuplicateTaskError(id TaskID) error {
	return simerr.New(simerr.DuplicateID, "task %d already registered", id)
}

func newMissingDependencyError(taskID, depID TaskID) error {
	return simerr.New(simerr.MissingDependency, "task %d depends on unregistered task %d", taskID, depID)
}

func newCycleDetectedError() error {
	return simerr.New(simerr.CycleDetected, "task dependency graph contains a cycle")
}

func newTaskExecutionError(id TaskID, cause error) error {
	return simerr.New(simerr.TaskExecutionFailure, "task %d failed: %v", id, cause)
}

func newRegistrationClosedError() error {
	return simerr.New(simerr.StructuralViolation, "cannot register a task after CompleteTaskRegistration")
}
