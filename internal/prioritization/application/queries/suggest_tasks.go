package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultSuggestionLimit bounds a suggestion list when the caller does
// not ask for a specific count.
const DefaultSuggestionLimit = 3

// SuggestionDTO is one recommended task.
type SuggestionDTO struct {
	Rank        int     `json:"rank"`
	TaskID      string  `json:"task_id"`
	Title       string  `json:"title"`
	Score       float64 `json:"priority_score"`
	Level       string  `json:"priority_level"`
	Reason      string  `json:"reason"`
}

// SuggestTasksQuery contains the parameters for a work suggestion.
type SuggestTasksQuery struct {
	UserID   uuid.UUID
	Strategy string
	Today    time.Time
	Limit    int
}

// SuggestTasksHandler recommends what to work on next by running an
// analysis and taking the top of the ranking.
type SuggestTasksHandler struct {
	analyze *AnalyzeTasksHandler
}

// NewSuggestTasksHandler creates a new SuggestTasksHandler.
func NewSuggestTasksHandler(analyze *AnalyzeTasksHandler) *SuggestTasksHandler {
	return &SuggestTasksHandler{analyze: analyze}
}

// Handle executes the SuggestTasksQuery.
func (h *SuggestTasksHandler) Handle(ctx context.Context, query SuggestTasksQuery) ([]SuggestionDTO, error) {
	analysis, err := h.analyze.Handle(ctx, AnalyzeTasksQuery{
		UserID:   query.UserID,
		Strategy: query.Strategy,
		Today:    query.Today,
	})
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if limit > len(analysis.Tasks) {
		limit = len(analysis.Tasks)
	}

	suggestions := make([]SuggestionDTO, 0, limit)
	for i, st := range analysis.Tasks[:limit] {
		suggestions = append(suggestions, SuggestionDTO{
			Rank:   i + 1,
			TaskID: st.ID,
			Title:  st.Title,
			Score:  st.Score,
			Level:  st.Level,
			Reason: fmt.Sprintf("%s priority (%.1f/10): %s", st.Level, st.Score, st.Explanation),
		})
	}

	return suggestions, nil
}
