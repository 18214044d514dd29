package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// UpdateTaskCommand contains the data needed to update a task. Nil
// pointer fields are left unchanged; a non-nil pointer to the zero
// value clears the field.
type UpdateTaskCommand struct {
	TaskID         uuid.UUID
	UserID         uuid.UUID
	Title          *string
	DueDate        **time.Time
	EstimatedHours *float64
	Importance     *int
	Dependencies   *[]uuid.UUID
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if t.UserID() != cmd.UserID {
		return ErrNotOwned
	}

	var changed []string

	if cmd.Title != nil {
		if err := t.SetTitle(*cmd.Title); err != nil {
			return err
		}
		changed = append(changed, "title")
	}
	if cmd.DueDate != nil {
		t.SetDueDate(*cmd.DueDate)
		changed = append(changed, "due_date")
	}
	if cmd.EstimatedHours != nil {
		t.SetEstimatedHours(*cmd.EstimatedHours)
		changed = append(changed, "estimated_hours")
	}
	if cmd.Importance != nil {
		if err := t.SetImportance(*cmd.Importance); err != nil {
			return err
		}
		changed = append(changed, "importance")
	}
	if cmd.Dependencies != nil {
		for _, dep := range t.Dependencies() {
			t.RemoveDependency(dep)
		}
		for _, dep := range *cmd.Dependencies {
			if err := t.AddDependency(dep); err != nil {
				return err
			}
		}
		changed = append(changed, "dependencies")
	}

	t.MarkUpdated(changed)

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	if err := eventbus.PublishEvents(ctx, h.publisher, t.DomainEvents()); err != nil {
		return err
	}
	t.ClearDomainEvents()

	return nil
}
