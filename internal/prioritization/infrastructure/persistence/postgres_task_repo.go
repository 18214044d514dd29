package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a new Postgres task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save persists a task and its dependency list. Saving an existing task
// bumps the version; a stale version fails with ErrOptimisticLocking.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE tasks
		SET title = $1, due_date = $2, estimated_hours = $3, importance = $4,
		    status = $5, completed_at = $6, updated_at = $7, version = version + 1
		WHERE id = $8 AND version = $9`,
		t.Title(), t.DueDate(), t.EstimatedHours(), t.Importance(),
		t.Status().String(), t.CompletedAt(), t.UpdatedAt().UTC(),
		t.ID(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, t.ID()).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return ErrOptimisticLocking
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO tasks (id, user_id, title, due_date, estimated_hours, importance,
			                   status, completed_at, version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			t.ID(), t.UserID(), t.Title(), t.DueDate(), t.EstimatedHours(),
			t.Importance(), t.Status().String(), t.CompletedAt(),
			t.Version(), t.CreatedAt().UTC(), t.UpdatedAt().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
	} else {
		t.IncrementVersion()
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM task_dependencies WHERE task_id = $1`, t.ID()); err != nil {
		return fmt.Errorf("failed to clear dependencies: %w", err)
	}
	for _, dep := range t.Dependencies() {
		if _, err := tx.Exec(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id) VALUES ($1, $2)`,
			t.ID(), dep); err != nil {
			return fmt.Errorf("failed to insert dependency: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByID retrieves a task by its ID.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, due_date, estimated_hours, importance,
		       status, completed_at, version, created_at, updated_at
		FROM tasks WHERE id = $1`, id)

	t, err := r.scanTask(ctx, row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user.
func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.findWhere(ctx, `user_id = $1`, userID)
}

// FindPending retrieves pending tasks for a user.
func (r *PostgresTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.findWhere(ctx, `user_id = $1 AND status = 'pending'`, userID)
}

// Delete removes a task and its dependency rows.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM task_dependencies WHERE task_id = $1`, id); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return tx.Commit(ctx)
}

func (r *PostgresTaskRepository) findWhere(ctx context.Context, where string, args ...any) ([]*task.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, due_date, estimated_hours, importance,
		       status, completed_at, version, created_at, updated_at
		FROM tasks WHERE `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t, err := r.scanTask(ctx, rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepository) scanTask(ctx context.Context, row pgx.Row) (*task.Task, error) {
	var (
		id, userID           uuid.UUID
		title, status        string
		due, completed       *time.Time
		estimatedHours       float64
		importance, version  int
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &title, &due, &estimatedHours,
		&importance, &status, &completed, &version, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	st, err := task.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	deps, err := r.loadDependencies(ctx, id)
	if err != nil {
		return nil, err
	}

	return task.Rehydrate(id, userID, title, due, estimatedHours, importance,
		deps, st, completed, createdAt, updatedAt, version), nil
}

func (r *PostgresTaskRepository) loadDependencies(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT depends_on_id FROM task_dependencies WHERE task_id = $1 ORDER BY depends_on_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deps []uuid.UUID
	for rows.Next() {
		var dep uuid.UUID
		if err := rows.Scan(&dep); err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

var _ task.Repository = (*PostgresTaskRepository)(nil)
