package commands

import (
	"context"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo  task.Repository
	publisher eventbus.Publisher
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo task.Repository, publisher eventbus.Publisher) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return err
	}
	if t.UserID() != cmd.UserID {
		return ErrNotOwned
	}

	if err := t.Complete(); err != nil {
		return err
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return err
	}

	if err := eventbus.PublishEvents(ctx, h.publisher, t.DomainEvents()); err != nil {
		return err
	}
	t.ClearDomainEvents()

	return nil
}
