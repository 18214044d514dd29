package queries

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Status         string      `json:"status"`
	DueDate        *time.Time  `json:"due_date,omitempty"`
	EstimatedHours float64     `json:"estimated_hours,omitempty"`
	Importance     int         `json:"importance,omitempty"`
	Dependencies   []uuid.UUID `json:"dependencies,omitempty"`
	CompletedAt    *time.Time  `json:"completed_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID    uuid.UUID
	Status    string // "all", "pending", "completed"
	SortBy    string // "due_date", "created_at"
	SortOrder string // "asc", "desc"
	Limit     int    // 0 = no limit
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	var tasks []*task.Task
	var err error

	switch query.Status {
	case "", "pending":
		tasks, err = h.taskRepo.FindPending(ctx, query.UserID)
	case "all":
		tasks, err = h.taskRepo.FindByUserID(ctx, query.UserID)
	default:
		tasks, err = h.taskRepo.FindByUserID(ctx, query.UserID)
		if err == nil {
			tasks = filterByStatus(tasks, query.Status)
		}
	}
	if err != nil {
		return nil, err
	}

	tasks = sortTasks(tasks, query.SortBy, query.SortOrder)

	if query.Limit > 0 && len(tasks) > query.Limit {
		tasks = tasks[:query.Limit]
	}

	return toTaskDTOs(tasks), nil
}

func filterByStatus(tasks []*task.Task, status string) []*task.Task {
	var filtered []*task.Task
	for _, t := range tasks {
		if t.Status().String() == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func sortTasks(tasks []*task.Task, sortBy, sortOrder string) []*task.Task {
	if sortBy == "" {
		sortBy = "due_date"
	}
	desc := sortOrder == "desc"

	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)

	switch sortBy {
	case "created_at":
		sort.SliceStable(sorted, func(i, j int) bool {
			if desc {
				return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
			}
			return sorted[i].CreatedAt().Before(sorted[j].CreatedAt())
		})
	default:
		// Due date sort; tasks without a due date go last.
		sort.SliceStable(sorted, func(i, j int) bool {
			di, dj := sorted[i].DueDate(), sorted[j].DueDate()
			switch {
			case di == nil:
				return false
			case dj == nil:
				return true
			case desc:
				return di.After(*dj)
			default:
				return di.Before(*dj)
			}
		})
	}

	return sorted
}

func toTaskDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:             t.ID(),
		Title:          t.Title(),
		Status:         t.Status().String(),
		DueDate:        t.DueDate(),
		EstimatedHours: t.EstimatedHours(),
		Importance:     t.Importance(),
		Dependencies:   t.Dependencies(),
		CompletedAt:    t.CompletedAt(),
		CreatedAt:      t.CreatedAt(),
	}
}

func toTaskDTOs(tasks []*task.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = toTaskDTO(t)
	}
	return dtos
}
