package persistence

import "errors"

var (
	// ErrTaskNotFound is returned when a task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrOptimisticLocking is returned when a save races with a
	// concurrent update of the same task.
	ErrOptimisticLocking = errors.New("task was modified concurrently")
)
