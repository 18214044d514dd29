package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID         uuid.UUID
	Title          string
	DueDate        *time.Time
	EstimatedHours float64
	Importance     int
	Dependencies   []uuid.UUID
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	t, err := task.NewTask(cmd.UserID, cmd.Title)
	if err != nil {
		return nil, err
	}

	if cmd.DueDate != nil {
		t.SetDueDate(cmd.DueDate)
	}
	if cmd.EstimatedHours > 0 {
		t.SetEstimatedHours(cmd.EstimatedHours)
	}
	if cmd.Importance > 0 {
		if err := t.SetImportance(cmd.Importance); err != nil {
			return nil, err
		}
	}
	for _, dep := range cmd.Dependencies {
		if err := t.AddDependency(dep); err != nil {
			return nil, err
		}
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if err := eventbus.PublishEvents(ctx, h.publisher, t.DomainEvents()); err != nil {
		return nil, err
	}
	t.ClearDomainEvents()

	return &CreateTaskResult{TaskID: t.ID()}, nil
}
