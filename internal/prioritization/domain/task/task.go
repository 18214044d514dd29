package task

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/felixgeelhaar/taskrank/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrInvalidImportance   = errors.New("importance must be between 1 and 10")
	ErrSelfDependency      = errors.New("task cannot depend on itself")
)

// Estimates outside this range are clamped on write so a stray input
// can never distort a whole analysis.
const (
	MinEstimatedHours = 0.1
	MaxEstimatedHours = 1000
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ParseStatus converts a persisted status string back to a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return StatusPending, errors.New("unknown task status: " + s)
	}
}

// Task is a unit of work tracked for prioritization. Importance of zero
// means unrated and estimatedHours of zero means unestimated; the
// scoring engine substitutes its defaults for both.
type Task struct {
	domain.BaseAggregateRoot
	userID         uuid.UUID
	title          string
	dueDate        *time.Time
	estimatedHours float64
	importance     int
	dependencies   []uuid.UUID
	status         Status
	completedAt    *time.Time
}

// NewTask creates a new pending task with the given title.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	t := &Task{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		status:            StatusPending,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), t.title))

	return t, nil
}

// Rehydrate recreates a task from persisted state without raising events.
func Rehydrate(
	id uuid.UUID,
	userID uuid.UUID,
	title string,
	dueDate *time.Time,
	estimatedHours float64,
	importance int,
	dependencies []uuid.UUID,
	status Status,
	completedAt *time.Time,
	createdAt, updatedAt time.Time,
	version int,
) *Task {
	return &Task{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(
			domain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		userID:         userID,
		title:          title,
		dueDate:        dueDate,
		estimatedHours: estimatedHours,
		importance:     importance,
		dependencies:   dependencies,
		status:         status,
		completedAt:    completedAt,
	}
}

// Getters

func (t *Task) UserID() uuid.UUID          { return t.userID }
func (t *Task) Title() string              { return t.title }
func (t *Task) DueDate() *time.Time        { return t.dueDate }
func (t *Task) EstimatedHours() float64    { return t.estimatedHours }
func (t *Task) Importance() int            { return t.importance }
func (t *Task) Dependencies() []uuid.UUID  { return t.dependencies }
func (t *Task) Status() Status             { return t.status }
func (t *Task) CompletedAt() *time.Time    { return t.completedAt }
func (t *Task) IsCompleted() bool          { return t.status == StatusCompleted }

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// SetDueDate updates the due date. A nil due date clears it.
func (t *Task) SetDueDate(dueDate *time.Time) {
	t.dueDate = dueDate
	t.Touch()
}

// SetEstimatedHours updates the effort estimate, clamped to the valid
// range. Zero or negative clears the estimate.
func (t *Task) SetEstimatedHours(hours float64) {
	switch {
	case hours <= 0:
		t.estimatedHours = 0
	case hours < MinEstimatedHours:
		t.estimatedHours = MinEstimatedHours
	case hours > MaxEstimatedHours:
		t.estimatedHours = MaxEstimatedHours
	default:
		t.estimatedHours = hours
	}
	t.Touch()
}

// SetImportance updates the importance rating. Zero clears the rating.
func (t *Task) SetImportance(importance int) error {
	if importance < 0 || importance > 10 {
		return ErrInvalidImportance
	}
	t.importance = importance
	t.Touch()
	return nil
}

// AddDependency records that this task depends on another. Adding an
// existing dependency is a no-op.
func (t *Task) AddDependency(id uuid.UUID) error {
	if id == t.ID() {
		return ErrSelfDependency
	}
	for _, dep := range t.dependencies {
		if dep == id {
			return nil
		}
	}
	t.dependencies = append(t.dependencies, id)
	t.Touch()
	return nil
}

// RemoveDependency drops a dependency if present.
func (t *Task) RemoveDependency(id uuid.UUID) {
	for i, dep := range t.dependencies {
		if dep == id {
			t.dependencies = append(t.dependencies[:i], t.dependencies[i+1:]...)
			t.Touch()
			return
		}
	}
}

// MarkUpdated records which fields changed in one update operation.
func (t *Task) MarkUpdated(fields []string) {
	if len(fields) == 0 {
		return
	}
	t.AddDomainEvent(NewTaskUpdated(t.ID(), fields))
}

// Complete marks the task as completed.
func (t *Task) Complete() error {
	if t.IsCompleted() {
		return ErrTaskAlreadyComplete
	}

	now := time.Now().UTC()
	t.status = StatusCompleted
	t.completedAt = &now
	t.Touch()

	t.AddDomainEvent(NewTaskCompleted(t.ID()))

	return nil
}

// MarkDeleted raises the deletion event prior to removal from storage.
func (t *Task) MarkDeleted() {
	t.AddDomainEvent(NewTaskDeleted(t.ID()))
}

// ScoringInput converts the task to the scoring engine's input record.
func (t *Task) ScoringInput() scoring.Task {
	deps := make([]string, 0, len(t.dependencies))
	for _, dep := range t.dependencies {
		deps = append(deps, dep.String())
	}
	return scoring.Task{
		ID:             t.ID().String(),
		Title:          t.title,
		DueDate:        t.dueDate,
		EstimatedHours: t.estimatedHours,
		Importance:     t.importance,
		Dependencies:   deps,
	}
}
