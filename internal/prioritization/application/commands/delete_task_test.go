package commands

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("deletes task and publishes deleted event", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		pub := &recordingPublisher{}
		handler := NewDeleteTaskHandler(taskRepo, pub)

		existing, _ := task.NewTask(userID, "Doomed")
		existing.ClearDomainEvents()
		taskRepo.On("FindByID", ctx, existing.ID()).Return(existing, nil)
		taskRepo.On("Delete", ctx, existing.ID()).Return(nil)

		err := handler.Handle(ctx, DeleteTaskCommand{TaskID: existing.ID(), UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, []string{task.RoutingKeyDeleted}, pub.keys)
		taskRepo.AssertExpectations(t)
	})

	t.Run("rejects other user's task", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewDeleteTaskHandler(taskRepo, &recordingPublisher{})

		existing, _ := task.NewTask(userID, "Safe")
		existing.ClearDomainEvents()
		taskRepo.On("FindByID", ctx, existing.ID()).Return(existing, nil)

		err := handler.Handle(ctx, DeleteTaskCommand{TaskID: existing.ID(), UserID: uuid.New()})

		assert.ErrorIs(t, err, ErrNotOwned)
		taskRepo.AssertNotCalled(t, "Delete")
	})
}
