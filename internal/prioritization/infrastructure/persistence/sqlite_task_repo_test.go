package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// setupSQLiteTestDB creates an in-memory SQLite database with the schema applied.
func setupSQLiteTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), sqlDB))

	return sqlDB
}

func TestSQLiteTaskRepository_SaveAndFindByID(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	due := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)
	dep := uuid.New()

	created, err := task.NewTask(userID, "Persisted task")
	require.NoError(t, err)
	created.SetDueDate(&due)
	created.SetEstimatedHours(2.5)
	require.NoError(t, created.SetImportance(7))
	require.NoError(t, created.AddDependency(dep))

	require.NoError(t, repo.Save(ctx, created))

	found, err := repo.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())
	assert.Equal(t, userID, found.UserID())
	assert.Equal(t, "Persisted task", found.Title())
	require.NotNil(t, found.DueDate())
	assert.True(t, found.DueDate().Equal(due))
	assert.Equal(t, 2.5, found.EstimatedHours())
	assert.Equal(t, 7, found.Importance())
	assert.Equal(t, []uuid.UUID{dep}, found.Dependencies())
	assert.Equal(t, task.StatusPending, found.Status())
	assert.Empty(t, found.DomainEvents())
}

func TestSQLiteTaskRepository_FindByID_NotFound(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestSQLiteTaskRepository_Save_Update(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))
	ctx := context.Background()

	created, _ := task.NewTask(uuid.New(), "Before")
	require.NoError(t, repo.Save(ctx, created))

	require.NoError(t, created.SetTitle("After"))
	created.SetEstimatedHours(4)
	require.NoError(t, repo.Save(ctx, created))

	found, err := repo.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "After", found.Title())
	assert.Equal(t, 4.0, found.EstimatedHours())
	assert.Equal(t, 1, found.Version())
}

func TestSQLiteTaskRepository_Save_StaleVersion(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))
	ctx := context.Background()

	created, _ := task.NewTask(uuid.New(), "Contended")
	require.NoError(t, repo.Save(ctx, created))

	// Two rehydrated copies of the same row.
	first, err := repo.FindByID(ctx, created.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, created.ID())
	require.NoError(t, err)

	require.NoError(t, first.SetTitle("First writer"))
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.SetTitle("Second writer"))
	assert.ErrorIs(t, repo.Save(ctx, second), ErrOptimisticLocking)
}

func TestSQLiteTaskRepository_FindPending(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	open, _ := task.NewTask(userID, "Open")
	done, _ := task.NewTask(userID, "Done")
	require.NoError(t, done.Complete())
	other, _ := task.NewTask(uuid.New(), "Someone else")

	require.NoError(t, repo.Save(ctx, open))
	require.NoError(t, repo.Save(ctx, done))
	require.NoError(t, repo.Save(ctx, other))

	pending, err := repo.FindPending(ctx, userID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Open", pending[0].Title())

	all, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteTaskRepository_Delete(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))
	ctx := context.Background()

	created, _ := task.NewTask(uuid.New(), "Doomed")
	require.NoError(t, created.AddDependency(uuid.New()))
	require.NoError(t, repo.Save(ctx, created))

	require.NoError(t, repo.Delete(ctx, created.ID()))

	_, err := repo.FindByID(ctx, created.ID())
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID()), ErrTaskNotFound)
}

func TestSQLiteTaskRepository_DependencyReplacement(t *testing.T) {
	repo := NewSQLiteTaskRepository(setupSQLiteTestDB(t))
	ctx := context.Background()

	created, _ := task.NewTask(uuid.New(), "Re-linked")
	old := uuid.New()
	require.NoError(t, created.AddDependency(old))
	require.NoError(t, repo.Save(ctx, created))

	created.RemoveDependency(old)
	replacement := uuid.New()
	require.NoError(t, created.AddDependency(replacement))
	require.NoError(t, repo.Save(ctx, created))

	found, err := repo.FindByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{replacement}, found.Dependencies())
}
