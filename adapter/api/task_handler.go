package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/persistence"
	"github.com/google/uuid"
)

// UserIDHeader identifies the acting user. Requests without it fall
// back to the server's default user.
const UserIDHeader = "X-User-ID"

// TaskHandler handles task CRUD API requests.
type TaskHandler struct {
	createTask    *commands.CreateTaskHandler
	updateTask    *commands.UpdateTaskHandler
	completeTask  *commands.CompleteTaskHandler
	deleteTask    *commands.DeleteTaskHandler
	listTasks     *queries.ListTasksHandler
	getTask       *queries.GetTaskHandler
	defaultUserID uuid.UUID
	logger        *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	CreateTask    *commands.CreateTaskHandler
	UpdateTask    *commands.UpdateTaskHandler
	CompleteTask  *commands.CompleteTaskHandler
	DeleteTask    *commands.DeleteTaskHandler
	ListTasks     *queries.ListTasksHandler
	GetTask       *queries.GetTaskHandler
	DefaultUserID uuid.UUID
	Logger        *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TaskHandler{
		createTask:    cfg.CreateTask,
		updateTask:    cfg.UpdateTask,
		completeTask:  cfg.CompleteTask,
		deleteTask:    cfg.DeleteTask,
		listTasks:     cfg.ListTasks,
		getTask:       cfg.GetTask,
		defaultUserID: cfg.DefaultUserID,
		logger:        cfg.Logger,
	}
}

type createTaskRequest struct {
	Title          string   `json:"title"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
	Importance     int      `json:"importance,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

// updateTaskRequest carries a partial update. Absent fields are left
// unchanged; an empty due_date clears the deadline.
type updateTaskRequest struct {
	Title          *string   `json:"title,omitempty"`
	DueDate        *string   `json:"due_date,omitempty"`
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	Importance     *int      `json:"importance,omitempty"`
	Dependencies   *[]string `json:"dependencies,omitempty"`
}

// ListTasks handles GET /api/v1/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := queries.ListTasksQuery{
		UserID:    userID,
		Status:    r.URL.Query().Get("status"),
		SortBy:    r.URL.Query().Get("sort"),
		SortOrder: r.URL.Query().Get("order"),
		Limit:     parseIntParam(r, "limit", 0),
	}

	tasks, err := h.listTasks.Handle(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"total": len(tasks),
	})
}

// GetTask handles GET /api/v1/tasks/{taskID}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	dto, err := h.getTask.Handle(r.Context(), queries.GetTaskQuery{
		UserID: userID,
		TaskID: taskID,
	})
	if err != nil {
		if errors.Is(err, persistence.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to get task", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get task")
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// CreateTask handles POST /api/v1/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	cmd := commands.CreateTaskCommand{
		UserID:         userID,
		Title:          req.Title,
		EstimatedHours: req.EstimatedHours,
		Importance:     req.Importance,
	}

	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid due_date %q", req.DueDate))
			return
		}
		cmd.DueDate = &due
	}

	deps, err := parseUUIDs(req.Dependencies)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cmd.Dependencies = deps

	result, err := h.createTask.Handle(r.Context(), cmd)
	if err != nil {
		h.writeCommandError(w, err, "failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id": result.TaskID.String(),
	})
}

// UpdateTask handles PATCH /api/v1/tasks/{taskID}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	cmd := commands.UpdateTaskCommand{
		TaskID:         taskID,
		UserID:         userID,
		Title:          req.Title,
		EstimatedHours: req.EstimatedHours,
		Importance:     req.Importance,
	}

	if req.DueDate != nil {
		if *req.DueDate == "" {
			var cleared *time.Time
			cmd.DueDate = &cleared
		} else {
			due, err := parseDate(*req.DueDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid due_date %q", *req.DueDate))
				return
			}
			duePtr := &due
			cmd.DueDate = &duePtr
		}
	}

	if req.Dependencies != nil {
		deps, err := parseUUIDs(*req.Dependencies)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cmd.Dependencies = &deps
	}

	if err := h.updateTask.Handle(r.Context(), cmd); err != nil {
		h.writeCommandError(w, err, "failed to update task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTask handles POST /api/v1/tasks/{taskID}/complete
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.completeTask.Handle(r.Context(), commands.CompleteTaskCommand{
		TaskID: taskID,
		UserID: userID,
	}); err != nil {
		h.writeCommandError(w, err, "failed to complete task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     taskID.String(),
		"status": "completed",
	})
}

// DeleteTask handles DELETE /api/v1/tasks/{taskID}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	taskID, err := uuid.Parse(r.PathValue("taskID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{
		TaskID: taskID,
		UserID: userID,
	}); err != nil {
		h.writeCommandError(w, err, "failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeCommandError maps command errors to HTTP responses.
func (h *TaskHandler) writeCommandError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, persistence.ErrTaskNotFound),
		errors.Is(err, commands.ErrNotOwned):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, persistence.ErrOptimisticLocking):
		writeError(w, http.StatusConflict, "Task was modified concurrently, retry")
	case errors.Is(err, task.ErrEmptyTitle),
		errors.Is(err, task.ErrInvalidImportance),
		errors.Is(err, task.ErrSelfDependency),
		errors.Is(err, task.ErrTaskAlreadyComplete):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *TaskHandler) userID(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get(UserIDHeader)
	if header == "" {
		return h.defaultUserID, nil
	}
	id, err := uuid.Parse(header)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s header", UserIDHeader)
	}
	return id, nil
}

// Helper functions

// parseDate accepts dates with or without a time component.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid dependency ID %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
