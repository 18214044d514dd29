package commands

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	newPendingTask := func() *task.Task {
		tsk, _ := task.NewTask(userID, "Test task")
		tsk.ClearDomainEvents()
		return tsk
	}

	t.Run("completes task and publishes completed event", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		pub := &recordingPublisher{}
		handler := NewCompleteTaskHandler(taskRepo, pub)

		existing := newPendingTask()
		taskRepo.On("FindByID", ctx, existing.ID()).Return(existing, nil)
		taskRepo.On("Save", ctx, mock.AnythingOfType("*task.Task")).Return(nil)

		err := handler.Handle(ctx, CompleteTaskCommand{TaskID: existing.ID(), UserID: userID})

		require.NoError(t, err)
		assert.True(t, existing.IsCompleted())
		assert.Equal(t, []string{task.RoutingKeyCompleted}, pub.keys)
		taskRepo.AssertExpectations(t)
	})

	t.Run("rejects other user's task", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewCompleteTaskHandler(taskRepo, &recordingPublisher{})

		existing := newPendingTask()
		taskRepo.On("FindByID", ctx, existing.ID()).Return(existing, nil)

		err := handler.Handle(ctx, CompleteTaskCommand{TaskID: existing.ID(), UserID: uuid.New()})

		assert.ErrorIs(t, err, ErrNotOwned)
		assert.False(t, existing.IsCompleted())
	})

	t.Run("rejects already completed task", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewCompleteTaskHandler(taskRepo, &recordingPublisher{})

		existing := newPendingTask()
		require.NoError(t, existing.Complete())
		existing.ClearDomainEvents()
		taskRepo.On("FindByID", ctx, existing.ID()).Return(existing, nil)

		err := handler.Handle(ctx, CompleteTaskCommand{TaskID: existing.ID(), UserID: userID})

		assert.ErrorIs(t, err, task.ErrTaskAlreadyComplete)
	})
}
