package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("returns the task as a DTO", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewGetTaskHandler(taskRepo)

		tsk, err := task.NewTask(userID, "Write changelog")
		require.NoError(t, err)
		tsk.SetEstimatedHours(2)
		taskRepo.On("FindByID", ctx, tsk.ID()).Return(tsk, nil)

		dto, err := handler.Handle(ctx, GetTaskQuery{UserID: userID, TaskID: tsk.ID()})
		require.NoError(t, err)
		assert.Equal(t, tsk.ID(), dto.ID)
		assert.Equal(t, "Write changelog", dto.Title)
		assert.Equal(t, "pending", dto.Status)
		assert.Equal(t, 2.0, dto.EstimatedHours)
	})

	t.Run("missing task propagates not found", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewGetTaskHandler(taskRepo)

		id := uuid.New()
		taskRepo.On("FindByID", ctx, id).Return(nil, persistence.ErrTaskNotFound)

		_, err := handler.Handle(ctx, GetTaskQuery{UserID: userID, TaskID: id})
		assert.ErrorIs(t, err, persistence.ErrTaskNotFound)
	})

	t.Run("another user's task reads as not found", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewGetTaskHandler(taskRepo)

		tsk, err := task.NewTask(uuid.New(), "Someone else's work")
		require.NoError(t, err)
		taskRepo.On("FindByID", ctx, tsk.ID()).Return(tsk, nil)

		_, err = handler.Handle(ctx, GetTaskQuery{UserID: userID, TaskID: tsk.ID()})
		assert.ErrorIs(t, err, persistence.ErrTaskNotFound)
	})
}
