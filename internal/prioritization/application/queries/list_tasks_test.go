package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTasksHandler_Handle(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	newTask := func(title string, due *time.Time) *task.Task {
		tsk, _ := task.NewTask(userID, title)
		tsk.ClearDomainEvents()
		if due != nil {
			tsk.SetDueDate(due)
		}
		return tsk
	}

	t.Run("defaults to pending tasks", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		pending := []*task.Task{newTask("One", nil)}
		taskRepo.On("FindPending", ctx, userID).Return(pending, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "One", dtos[0].Title)
		assert.Equal(t, "pending", dtos[0].Status)
	})

	t.Run("status all returns everything", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		done := newTask("Done", nil)
		require.NoError(t, done.Complete())
		all := []*task.Task{newTask("Open", nil), done}
		taskRepo.On("FindByUserID", ctx, userID).Return(all, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, Status: "all"})

		require.NoError(t, err)
		assert.Len(t, dtos, 2)
	})

	t.Run("status completed filters", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		done := newTask("Done", nil)
		require.NoError(t, done.Complete())
		all := []*task.Task{newTask("Open", nil), done}
		taskRepo.On("FindByUserID", ctx, userID).Return(all, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, Status: "completed"})

		require.NoError(t, err)
		require.Len(t, dtos, 1)
		assert.Equal(t, "Done", dtos[0].Title)
	})

	t.Run("sorts by due date with nil dates last", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		early := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC)
		late := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
		tasks := []*task.Task{
			newTask("No due", nil),
			newTask("Late", &late),
			newTask("Early", &early),
		}
		taskRepo.On("FindPending", ctx, userID).Return(tasks, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, SortBy: "due_date"})

		require.NoError(t, err)
		require.Len(t, dtos, 3)
		assert.Equal(t, "Early", dtos[0].Title)
		assert.Equal(t, "Late", dtos[1].Title)
		assert.Equal(t, "No due", dtos[2].Title)
	})

	t.Run("applies limit", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewListTasksHandler(taskRepo)

		tasks := []*task.Task{newTask("A", nil), newTask("B", nil), newTask("C", nil)}
		taskRepo.On("FindPending", ctx, userID).Return(tasks, nil)

		dtos, err := handler.Handle(ctx, ListTasksQuery{UserID: userID, Limit: 2})

		require.NoError(t, err)
		assert.Len(t, dtos, 2)
	})
}
