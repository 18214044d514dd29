package queries

import (
	"context"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/persistence"
	"github.com/google/uuid"
)

// GetTaskQuery contains the parameters for fetching a single task.
type GetTaskQuery struct {
	UserID uuid.UUID
	TaskID uuid.UUID
}

// GetTaskHandler handles the GetTaskQuery.
type GetTaskHandler struct {
	taskRepo task.Repository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo task.Repository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

// Handle executes the GetTaskQuery. A task owned by another user is
// reported as not found.
func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	t, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	if t.UserID() != query.UserID {
		return nil, persistence.ErrTaskNotFound
	}

	dto := toTaskDTO(t)
	return &dto, nil
}
