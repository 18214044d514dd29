package persistence

import (
	"context"
	"sort"
	"sync"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
)

// MemoryTaskRepository is an in-memory task.Repository used by tests
// and as the API server's degraded fallback when no database is
// configured.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*task.Task
}

// NewMemoryTaskRepository creates an empty in-memory repository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[uuid.UUID]*task.Task)}
}

// Save stores the task. Version conflicts are not simulated.
func (r *MemoryTaskRepository) Save(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID()] = t
	return nil
}

// FindByID retrieves a task by its ID.
func (r *MemoryTaskRepository) FindByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// FindByUserID retrieves all tasks for a user ordered by creation time.
func (r *MemoryTaskRepository) FindByUserID(_ context.Context, userID uuid.UUID) ([]*task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*task.Task
	for _, t := range r.tasks {
		if t.UserID() == userID {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt().Before(tasks[j].CreatedAt())
	})
	return tasks, nil
}

// FindPending retrieves pending tasks for a user ordered by creation time.
func (r *MemoryTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	all, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var pending []*task.Task
	for _, t := range all {
		if t.Status() == task.StatusPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// Delete removes a task.
func (r *MemoryTaskRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

var _ task.Repository = (*MemoryTaskRepository)(nil)
