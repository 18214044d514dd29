package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
)

// SQLiteTaskRepository implements task.Repository using SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// Save persists a task and its dependency list. Saving an existing task
// bumps the version; a stale version fails with ErrOptimisticLocking.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var dueDate sql.NullString
	if t.DueDate() != nil {
		dueDate = sql.NullString{String: t.DueDate().UTC().Format(time.RFC3339), Valid: true}
	}
	var completedAt sql.NullString
	if t.CompletedAt() != nil {
		completedAt = sql.NullString{String: t.CompletedAt().UTC().Format(time.RFC3339), Valid: true}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, due_date = ?, estimated_hours = ?, importance = ?,
		    status = ?, completed_at = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		t.Title(), dueDate, t.EstimatedHours(), t.Importance(),
		t.Status().String(), completedAt, t.UpdatedAt().UTC().Format(time.RFC3339),
		t.ID().String(), t.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM tasks WHERE id = ?`, t.ID().String()).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrOptimisticLocking
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, user_id, title, due_date, estimated_hours, importance,
			                   status, completed_at, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID().String(), t.UserID().String(), t.Title(), dueDate,
			t.EstimatedHours(), t.Importance(), t.Status().String(), completedAt,
			t.Version(), t.CreatedAt().UTC().Format(time.RFC3339),
			t.UpdatedAt().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to insert task: %w", err)
		}
	} else {
		t.IncrementVersion()
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = ?`, t.ID().String()); err != nil {
		return fmt.Errorf("failed to clear dependencies: %w", err)
	}
	for _, dep := range t.Dependencies() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)`,
			t.ID().String(), dep.String()); err != nil {
			return fmt.Errorf("failed to insert dependency: %w", err)
		}
	}

	return tx.Commit()
}

// FindByID retrieves a task by its ID.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, due_date, estimated_hours, importance,
		       status, completed_at, version, created_at, updated_at
		FROM tasks WHERE id = ?`, id.String())

	t, err := r.scanTask(ctx, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user.
func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.findWhere(ctx, `user_id = ?`, userID.String())
}

// FindPending retrieves pending tasks for a user.
func (r *SQLiteTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	return r.findWhere(ctx, `user_id = ? AND status = 'pending'`, userID.String())
}

// Delete removes a task and its dependency rows.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM task_dependencies WHERE task_id = ?`, id.String()); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return tx.Commit()
}

func (r *SQLiteTaskRepository) findWhere(ctx context.Context, where string, args ...any) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, due_date, estimated_hours, importance,
		       status, completed_at, version, created_at, updated_at
		FROM tasks WHERE `+where+` ORDER BY created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

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

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteTaskRepository) scanTask(ctx context.Context, row rowScanner) (*task.Task, error) {
	var (
		idStr, userIDStr, title, status string
		dueDate, completedAt            sql.NullString
		estimatedHours                  float64
		importance, version             int
		createdAtStr, updatedAtStr      string
	)

	err := row.Scan(&idStr, &userIDStr, &title, &dueDate, &estimatedHours,
		&importance, &status, &completedAt, &version, &createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id: %w", err)
	}
	st, err := task.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var due *time.Time
	if dueDate.Valid {
		parsed, err := time.Parse(time.RFC3339, dueDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date: %w", err)
		}
		due = &parsed
	}
	var completed *time.Time
	if completedAt.Valid {
		parsed, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at: %w", err)
		}
		completed = &parsed
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}

	deps, err := r.loadDependencies(ctx, idStr)
	if err != nil {
		return nil, err
	}

	return task.Rehydrate(id, userID, title, due, estimatedHours, importance,
		deps, st, completed, createdAt, updatedAt, version), nil
}

func (r *SQLiteTaskRepository) loadDependencies(ctx context.Context, taskID string) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT depends_on_id FROM task_dependencies WHERE task_id = ? ORDER BY depends_on_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var deps []uuid.UUID
	for rows.Next() {
		var depStr string
		if err := rows.Scan(&depStr); err != nil {
			return nil, err
		}
		dep, err := uuid.Parse(depStr)
		if err != nil {
			return nil, fmt.Errorf("invalid dependency id: %w", err)
		}
		deps = append(deps, dep)
	}
	return deps, rows.Err()
}

var _ task.Repository = (*SQLiteTaskRepository)(nil)
