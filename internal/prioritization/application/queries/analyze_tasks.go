package queries

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/shared/domain"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ScoredTaskDTO is one scored task in an analysis result.
type ScoredTaskDTO struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	EstimatedHours float64            `json:"estimated_hours,omitempty"`
	Importance     int                `json:"importance,omitempty"`
	Dependencies   []string           `json:"dependencies,omitempty"`
	Scores         scoring.SubScores  `json:"scores"`
	Score          float64            `json:"priority_score"`
	Level          string             `json:"priority_level"`
	Explanation    string             `json:"explanation"`
}

// AnalysisDTO is the result of one analysis run.
type AnalysisDTO struct {
	Strategy    string          `json:"strategy"`
	GeneratedAt time.Time       `json:"generated_at"`
	Tasks       []ScoredTaskDTO `json:"tasks"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// AnalysisCache stores analysis results keyed by user and input
// fingerprint. Implementations may degrade to a permanent miss.
type AnalysisCache interface {
	Get(ctx context.Context, userID uuid.UUID, fingerprint string) (*AnalysisDTO, bool)
	Set(ctx context.Context, userID uuid.UUID, fingerprint string, analysis *AnalysisDTO)
}

// AnalyzeTasksQuery contains the parameters for scoring a user's
// pending tasks. A zero Today means the current UTC date.
type AnalyzeTasksQuery struct {
	UserID   uuid.UUID
	Strategy string
	Today    time.Time
}

// AnalyzeTasksHandler handles the AnalyzeTasksQuery.
type AnalyzeTasksHandler struct {
	taskRepo  task.Repository
	cache     AnalysisCache
	holidays  scoring.HolidaySet
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler. The cache
// may be nil, in which case every analysis is computed fresh.
func NewAnalyzeTasksHandler(taskRepo task.Repository, cache AnalysisCache, holidays scoring.HolidaySet) *AnalyzeTasksHandler {
	return &AnalyzeTasksHandler{
		taskRepo: taskRepo,
		cache:    cache,
		holidays: holidays,
		logger:   slog.Default(),
	}
}

// SetPublisher attaches a publisher for AnalysisCompleted events.
// Publishing is best effort; a broker failure never fails the analysis.
func (h *AnalyzeTasksHandler) SetPublisher(publisher eventbus.Publisher, logger *slog.Logger) {
	h.publisher = publisher
	if logger != nil {
		h.logger = logger
	}
}

// Handle executes the AnalyzeTasksQuery.
func (h *AnalyzeTasksHandler) Handle(ctx context.Context, query AnalyzeTasksQuery) (*AnalysisDTO, error) {
	// Validate the strategy before any repository work so an unknown
	// name fails fast regardless of stored state.
	if _, err := scoring.ParseStrategy(query.Strategy); err != nil {
		return nil, err
	}

	today := query.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}

	tasks, err := h.taskRepo.FindPending(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	fingerprint := analysisFingerprint(tasks, query.Strategy, today)
	if h.cache != nil {
		if cached, ok := h.cache.Get(ctx, query.UserID, fingerprint); ok {
			return cached, nil
		}
	}

	inputs := make([]scoring.Task, 0, len(tasks))
	for _, t := range tasks {
		inputs = append(inputs, t.ScoringInput())
	}

	result, err := scoring.Analyze(inputs, query.Strategy, today, h.holidays)
	if err != nil {
		return nil, err
	}

	analysis := &AnalysisDTO{
		Strategy:    query.Strategy,
		GeneratedAt: time.Now().UTC(),
		Tasks:       toScoredTaskDTOs(result.Tasks),
		Warnings:    result.Warnings,
	}

	if h.cache != nil {
		h.cache.Set(ctx, query.UserID, fingerprint, analysis)
	}

	if h.publisher != nil {
		event := task.NewAnalysisCompleted(query.UserID, query.Strategy, len(analysis.Tasks))
		if err := eventbus.PublishEvents(ctx, h.publisher, []domain.DomainEvent{event}); err != nil {
			h.logger.Warn("failed to publish analysis event", "error", err)
		}
	}

	return analysis, nil
}

// analysisFingerprint hashes everything that can change an analysis
// outcome: the task set with update times, the strategy, and the
// reference date. Task order does not matter.
func analysisFingerprint(tasks []*task.Task, strategy string, today time.Time) string {
	lines := make([]string, 0, len(tasks)+2)
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("%s|%d", t.ID(), t.UpdatedAt().UnixNano()))
	}
	sort.Strings(lines)
	lines = append(lines, strings.ToLower(strategy), today.Format("2006-01-02"))

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

func toScoredTaskDTOs(scored []scoring.ScoredTask) []ScoredTaskDTO {
	dtos := make([]ScoredTaskDTO, len(scored))
	for i, st := range scored {
		dtos[i] = ScoredTaskDTO{
			ID:             st.ID,
			Title:          st.Title,
			DueDate:        st.DueDate,
			EstimatedHours: st.EstimatedHours,
			Importance:     st.Importance,
			Dependencies:   st.Task.Dependencies,
			Scores:         st.Scores,
			Score:          st.Score,
			Level:          string(st.Level),
			Explanation:    st.Explanation,
		}
	}
	return dtos
}
