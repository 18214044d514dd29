package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/google/uuid"
)

// AnalyzeHandler handles analysis and suggestion API requests.
type AnalyzeHandler struct {
	analyzeTasks    *queries.AnalyzeTasksHandler
	suggestTasks    *queries.SuggestTasksHandler
	holidays        scoring.HolidaySet
	defaultStrategy string
	defaultUserID   uuid.UUID
	logger          *slog.Logger
}

// AnalyzeHandlerConfig holds dependencies for the analyze handler.
type AnalyzeHandlerConfig struct {
	AnalyzeTasks    *queries.AnalyzeTasksHandler
	SuggestTasks    *queries.SuggestTasksHandler
	Holidays        scoring.HolidaySet
	DefaultStrategy string
	DefaultUserID   uuid.UUID
	Logger          *slog.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(cfg AnalyzeHandlerConfig) *AnalyzeHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultStrategy == "" {
		cfg.DefaultStrategy = scoring.StrategySmartBalance.String()
	}
	return &AnalyzeHandler{
		analyzeTasks:    cfg.AnalyzeTasks,
		suggestTasks:    cfg.SuggestTasks,
		holidays:        cfg.Holidays,
		defaultStrategy: cfg.DefaultStrategy,
		defaultUserID:   cfg.DefaultUserID,
		logger:          cfg.Logger,
	}
}

// adHocTask is a task submitted inline for analysis, without being
// stored first. Fields mirror the task resource.
type adHocTask struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours float64  `json:"estimated_hours,omitempty"`
	Importance     int      `json:"importance,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

type analyzeRequest struct {
	Strategy       string      `json:"strategy,omitempty"`
	Tasks          []adHocTask `json:"tasks,omitempty"`
	UseStoredTasks bool        `json:"use_stored_tasks,omitempty"`
	Today          string      `json:"today,omitempty"`
}

type analyzeMetadata struct {
	TotalTasks        int        `json:"total_tasks"`
	HasCircularDeps   bool       `json:"has_circular_dependencies"`
	CircularDepCycles [][]string `json:"circular_dependency_cycles,omitempty"`
}

type analyzeResponse struct {
	Success     bool                    `json:"success"`
	Strategy    string                  `json:"strategy"`
	GeneratedAt time.Time               `json:"generated_at"`
	Tasks       []queries.ScoredTaskDTO `json:"tasks"`
	Metadata    analyzeMetadata         `json:"metadata"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// ListStrategies handles GET /api/v1/strategies
func (h *AnalyzeHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	type strategyInfo struct {
		Name    string          `json:"name"`
		Weights scoring.Weights `json:"weights"`
		Default bool            `json:"default"`
	}

	infos := make([]strategyInfo, 0, len(scoring.Strategies()))
	for _, s := range scoring.Strategies() {
		infos = append(infos, strategyInfo{
			Name:    s.String(),
			Weights: s.Weights(),
			Default: s.String() == h.defaultStrategy,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": infos,
	})
}

// AnalyzeTasks handles POST /api/v1/tasks/analyze
//
// The request either names stored tasks (use_stored_tasks, or an empty
// task list) or carries an inline batch. Inline tasks are normalized
// before scoring; anything repaired along the way is reported in the
// warnings list.
func (h *AnalyzeHandler) AnalyzeTasks(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = h.defaultStrategy
	}
	if _, err := scoring.ParseStrategy(strategy); err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unknown strategy %q, valid strategies: %s", strategy, strings.Join(scoring.StrategyNames(), ", ")))
		return
	}

	var today time.Time
	if req.Today != "" {
		parsed, err := parseDate(req.Today)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid today %q", req.Today))
			return
		}
		today = parsed
	}

	if req.UseStoredTasks || len(req.Tasks) == 0 {
		h.analyzeStored(w, r, strategy, today)
		return
	}

	h.analyzeInline(w, r, strategy, today, req.Tasks)
}

func (h *AnalyzeHandler) analyzeStored(w http.ResponseWriter, r *http.Request, strategy string, today time.Time) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := h.analyzeTasks.Handle(r.Context(), queries.AnalyzeTasksQuery{
		UserID:   userID,
		Strategy: strategy,
		Today:    today,
	})
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to analyze tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to analyze tasks")
		return
	}

	cycles := cyclesFromWarnings(analysis.Warnings)
	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:     true,
		Strategy:    analysis.Strategy,
		GeneratedAt: analysis.GeneratedAt,
		Tasks:       analysis.Tasks,
		Metadata: analyzeMetadata{
			TotalTasks:        len(analysis.Tasks),
			HasCircularDeps:   len(cycles) > 0,
			CircularDepCycles: cycles,
		},
		Warnings: analysis.Warnings,
	})
}

func (h *AnalyzeHandler) analyzeInline(w http.ResponseWriter, r *http.Request, strategy string, today time.Time, payload []adHocTask) {
	tasks, warnings := normalizeAdHocTasks(payload)

	if today.IsZero() {
		today = time.Now().UTC()
	}
	result, err := scoring.Analyze(tasks, strategy, today, h.holidays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	warnings = append(warnings, result.Warnings...)
	cycles := cyclesFromWarnings(result.Warnings)

	dtos := make([]queries.ScoredTaskDTO, 0, len(result.Tasks))
	for _, st := range result.Tasks {
		dtos = append(dtos, queries.ScoredTaskDTO{
			ID:             st.ID,
			Title:          st.Title,
			DueDate:        st.DueDate,
			EstimatedHours: st.EstimatedHours,
			Importance:     st.Importance,
			Dependencies:   st.Dependencies,
			Scores:         st.Scores,
			Score:          st.Score,
			Level:          string(st.Level),
			Explanation:    st.Explanation,
		})
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:     true,
		Strategy:    strategy,
		GeneratedAt: time.Now().UTC(),
		Tasks:       dtos,
		Metadata: analyzeMetadata{
			TotalTasks:        len(dtos),
			HasCircularDeps:   len(cycles) > 0,
			CircularDepCycles: cycles,
		},
		Warnings: warnings,
	})
}

// SuggestTasks handles GET /api/v1/tasks/suggest
func (h *AnalyzeHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = h.defaultStrategy
	}

	suggestions, err := h.suggestTasks.Handle(r.Context(), queries.SuggestTasksQuery{
		UserID:   userID,
		Strategy: strategy,
		Limit:    parseIntParam(r, "limit", 0),
	})
	if err != nil {
		if errors.Is(err, scoring.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to suggest tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to suggest tasks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"strategy":    strategy,
		"suggestions": suggestions,
	})
}

func (h *AnalyzeHandler) userID(r *http.Request) (uuid.UUID, error) {
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

const (
	minEstimatedHours = 0.1
	maxEstimatedHours = 1000
)

// normalizeAdHocTasks repairs an inline task batch so that scoring
// always has something to work with. Missing identifiers and titles
// get placeholders, out-of-range numbers are clamped, unparseable
// dates are dropped. Each repair produces a warning.
func normalizeAdHocTasks(payload []adHocTask) ([]scoring.Task, []string) {
	tasks := make([]scoring.Task, 0, len(payload))
	var warnings []string

	for i, raw := range payload {
		t := scoring.Task{
			ID:           raw.ID,
			Title:        raw.Title,
			Importance:   raw.Importance,
			Dependencies: raw.Dependencies,
		}

		if t.ID == "" {
			t.ID = fmt.Sprintf("task-%d", i+1)
			warnings = append(warnings, fmt.Sprintf("task %d: missing id, assigned %q", i+1, t.ID))
		}
		if t.Title == "" {
			t.Title = "Untitled Task"
			warnings = append(warnings, fmt.Sprintf("task %q: missing title", t.ID))
		}

		if raw.DueDate != "" {
			due, err := parseDate(raw.DueDate)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("task %q: invalid due_date %q, ignoring", t.ID, raw.DueDate))
			} else {
				t.DueDate = &due
			}
		}

		switch {
		case raw.EstimatedHours < 0:
			warnings = append(warnings, fmt.Sprintf("task %q: negative estimated_hours, using default", t.ID))
		case raw.EstimatedHours > maxEstimatedHours:
			warnings = append(warnings, fmt.Sprintf("task %q: estimated_hours capped at %d", t.ID, maxEstimatedHours))
			t.EstimatedHours = maxEstimatedHours
		case raw.EstimatedHours > 0 && raw.EstimatedHours < minEstimatedHours:
			t.EstimatedHours = minEstimatedHours
		default:
			t.EstimatedHours = raw.EstimatedHours
		}

		if raw.Importance < 0 {
			warnings = append(warnings, fmt.Sprintf("task %q: negative importance, using default", t.ID))
			t.Importance = 0
		} else if raw.Importance > 10 {
			warnings = append(warnings, fmt.Sprintf("task %q: importance capped at 10", t.ID))
			t.Importance = 10
		}

		tasks = append(tasks, t)
	}

	return tasks, warnings
}

const cycleWarningPrefix = "circular dependency detected: "

// cyclesFromWarnings recovers cycle paths from analysis warnings.
func cyclesFromWarnings(warnings []string) [][]string {
	var cycles [][]string
	for _, warning := range warnings {
		if !strings.HasPrefix(warning, cycleWarningPrefix) {
			continue
		}
		path := strings.Split(strings.TrimPrefix(warning, cycleWarningPrefix), " -> ")
		cycles = append(cycles, path)
	}
	return cycles
}
