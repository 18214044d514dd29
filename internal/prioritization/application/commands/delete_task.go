package commands

import (
	"context"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// DeleteTaskCommand contains the data needed to delete a task.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

// Handle executes the DeleteTaskCommand.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if t.UserID() != cmd.UserID {
		return ErrNotOwned
	}

	if err := h.taskRepo.Delete(ctx, cmd.TaskID); err != nil {
		return err
	}

	t.MarkDeleted()
	if err := eventbus.PublishEvents(ctx, h.publisher, t.DomainEvents()); err != nil {
		return err
	}
	t.ClearDomainEvents()

	return nil
}
