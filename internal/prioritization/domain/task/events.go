package task

import (
	"github.com/felixgeelhaar/taskrank/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Task"

	RoutingKeyCreated   = "taskrank.task.created"
	RoutingKeyUpdated   = "taskrank.task.updated"
	RoutingKeyCompleted = "taskrank.task.completed"
	RoutingKeyDeleted   = "taskrank.task.deleted"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title string `json:"title"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID uuid.UUID, title string) TaskCreated {
	return TaskCreated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		Title:     title,
	}
}

// TaskUpdated is emitted when task fields change.
type TaskUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(taskID uuid.UUID, fields []string) TaskUpdated {
	return TaskUpdated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUpdated),
		Fields:    fields,
	}
}

// TaskCompleted is emitted when a task is completed.
type TaskCompleted struct {
	domain.BaseEvent
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID uuid.UUID) TaskCompleted {
	return TaskCompleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCompleted),
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID uuid.UUID) TaskDeleted {
	return TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted),
	}
}

const (
	AnalysisAggregateType = "Analysis"

	RoutingKeyAnalyzed = "taskrank.analysis.completed"
)

// AnalysisCompleted is emitted when a priority analysis finishes. The
// aggregate ID is the user whose tasks were analyzed.
type AnalysisCompleted struct {
	domain.BaseEvent
	Strategy  string `json:"strategy"`
	TaskCount int    `json:"task_count"`
}

// NewAnalysisCompleted creates an AnalysisCompleted event.
func NewAnalysisCompleted(userID uuid.UUID, strategy string, taskCount int) AnalysisCompleted {
	return AnalysisCompleted{
		BaseEvent: domain.NewBaseEvent(userID, AnalysisAggregateType, RoutingKeyAnalyzed),
		Strategy:  strategy,
		TaskCount: taskCount,
	}
}
