// Package scoring computes priority scores for task batches. It is pure:
// no clock reads, no I/O, no retained state. Callers inject the reference
// date and the holiday calendar, and every analysis is an independent
// computation over an immutable snapshot.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultEstimatedHours is substituted for missing or invalid effort estimates.
	DefaultEstimatedHours = 2.0
	// DefaultImportance is substituted for missing importance ratings.
	DefaultImportance = 5

	dependencyBase     = 5.0
	blockerBonus       = 2.0
	outstandingPenalty = 1.0
)

// Task is the input record for one unit of work. IDs are caller-supplied
// and assumed unique within a batch. Dependencies may reference ids not
// present in the batch; such references have no effect on scoring.
type Task struct {
	ID             string
	Title          string
	DueDate        *time.Time
	EstimatedHours float64
	Importance     int
	Dependencies   []string
}

// SubScores holds the four factor scores for a task. Each is nominally
// 0-10; urgency exceeds 10 for overdue tasks.
type SubScores struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Effort     float64 `json:"effort"`
	Dependency float64 `json:"dependency"`
}

// Level buckets a priority score for display.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// LevelForScore maps a combined score to its priority level.
func LevelForScore(score float64) Level {
	switch {
	case score >= 8:
		return LevelCritical
	case score >= 6:
		return LevelHigh
	case score >= 4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ScoredTask is the scoring output for one task.
type ScoredTask struct {
	Task
	Scores      SubScores
	Score       float64
	Level       Level
	Explanation string
}

// Result is the outcome of one analysis: tasks sorted descending by score
// (input order preserved on ties) plus one warning per detected cycle.
type Result struct {
	Tasks    []ScoredTask
	Warnings []string
}

// Analyze scores a task batch with the named strategy. The only possible
// failure is an unknown strategy name; malformed task fields are clamped
// or defaulted instead of rejected.
func Analyze(tasks []Task, strategy string, today time.Time, holidays HolidaySet) (*Result, error) {
	st, err := ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}
	return AnalyzeWithWeights(tasks, st.Weights(), today, holidays), nil
}

// AnalyzeWithWeights scores a task batch with an explicit weight vector.
// The input slice is not mutated.
func AnalyzeWithWeights(tasks []Task, weights Weights, today time.Time, holidays HolidaySet) *Result {
	graph := NewGraph(tasks)
	cycles := graph.Cycles()
	excluded := cycleEdges(cycles)

	result := &Result{Tasks: make([]ScoredTask, 0, len(tasks))}
	for _, cycle := range cycles {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")))
	}

	for _, t := range tasks {
		scores := SubScores{
			Urgency:    UrgencyScore(t.DueDate, today, holidays),
			Importance: ImportanceScore(t.Importance),
			Effort:     EffortScore(t.EstimatedHours),
		}
		counts := dependencyCounts(t, tasks, graph, excluded)
		scores.Dependency = counts.score()

		raw := weights.Urgency*scores.Urgency +
			weights.Importance*scores.Importance +
			weights.Effort*scores.Effort +
			weights.Dependency*scores.Dependency

		// Urgency above 10 is absorbed here, at the combination step.
		score := roundToTenth(clamp(raw, 0, 10))

		result.Tasks = append(result.Tasks, ScoredTask{
			Task:        t,
			Scores:      scores,
			Score:       score,
			Level:       LevelForScore(score),
			Explanation: explain(t, scores, weights, counts, today, holidays),
		})
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Score > result.Tasks[j].Score
	})

	return result
}

// UrgencyScore rates deadline pressure on a working-day scale. Tasks with
// no due date score the minimum 1. A task due today scores exactly 10 and
// gains one point per working day overdue; a future due date loses one
// point per working day remaining, floored at 0. Working days are counted
// exclusive of today and inclusive of the due date, so weekend proximity
// never understates urgency.
func UrgencyScore(due *time.Time, today time.Time, holidays HolidaySet) float64 {
	if due == nil {
		return 1
	}

	dueDate := truncateToDate(*due)
	todayDate := truncateToDate(today)

	if !dueDate.After(todayDate) {
		overdue := WorkingDaysBetween(dueDate, todayDate, holidays)
		return 10 + float64(overdue)
	}

	remaining := WorkingDaysBetween(todayDate, dueDate, holidays)
	return math.Max(0, 10-float64(remaining))
}

// ImportanceScore passes the importance rating through, clamped to [1,10].
// Ratings of zero or below are treated as absent and default to 5.
func ImportanceScore(importance int) float64 {
	if importance <= 0 {
		importance = DefaultImportance
	}
	return clamp(float64(importance), 1, 10)
}

// EffortScore rewards short tasks: max(1, 10-hours), clamped to [1,10].
// Missing or non-positive estimates fall back to the 2-hour default.
func EffortScore(hours float64) float64 {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		hours = DefaultEstimatedHours
	}
	return clamp(10-hours, 1, 10)
}

type depCounts struct {
	blocks      int // other tasks naming this one as a dependency
	outstanding int // in-batch dependencies this task still has
}

func (c depCounts) score() float64 {
	raw := dependencyBase + blockerBonus*float64(c.blocks) - outstandingPenalty*float64(c.outstanding)
	return clamp(raw, 1, 10)
}

// dependencyCounts tallies blocking relationships for one task, skipping
// edges that belong to a detected cycle.
func dependencyCounts(t Task, tasks []Task, graph *Graph, excluded map[edge]struct{}) depCounts {
	var counts depCounts

	for _, other := range tasks {
		if other.ID == t.ID {
			continue
		}
		for _, dep := range graph.Dependencies(other.ID) {
			if dep != t.ID {
				continue
			}
			if _, cyclic := excluded[edge{from: other.ID, to: t.ID}]; cyclic {
				continue
			}
			counts.blocks++
		}
	}

	for _, dep := range graph.Dependencies(t.ID) {
		if _, cyclic := excluded[edge{from: t.ID, to: dep}]; cyclic {
			continue
		}
		counts.outstanding++
	}

	return counts
}

// explain produces a one-line summary naming the factor that contributed
// most to the weighted score, plus any secondary signals worth surfacing.
func explain(t Task, s SubScores, w Weights, counts depCounts, today time.Time, holidays HolidaySet) string {
	contributions := []struct {
		name   string
		weight float64
	}{
		{"urgency", w.Urgency * s.Urgency},
		{"importance", w.Importance * s.Importance},
		{"effort", w.Effort * s.Effort},
		{"dependency", w.Dependency * s.Dependency},
	}
	dominant := contributions[0]
	for _, c := range contributions[1:] {
		if c.weight > dominant.weight {
			dominant = c
		}
	}

	parts := []string{factorPhrase(dominant.name, t, s, counts, today, holidays)}

	if dominant.name != "urgency" && t.DueDate != nil && s.Urgency >= 10 {
		parts = append(parts, factorPhrase("urgency", t, s, counts, today, holidays))
	}
	if dominant.name != "importance" && t.Importance >= 8 {
		parts = append(parts, fmt.Sprintf("high importance (%d/10)", t.Importance))
	}
	if dominant.name != "effort" && s.Effort >= 8 && t.EstimatedHours > 0 {
		parts = append(parts, fmt.Sprintf("quick win (%gh estimated)", t.EstimatedHours))
	}
	if dominant.name != "dependency" && counts.blocks > 0 {
		parts = append(parts, fmt.Sprintf("unblocks %d task(s)", counts.blocks))
	}

	return strings.Join(parts, " | ")
}

func factorPhrase(factor string, t Task, s SubScores, counts depCounts, today time.Time, holidays HolidaySet) string {
	switch factor {
	case "urgency":
		if t.DueDate == nil {
			return "no deadline pressure"
		}
		dueDate := truncateToDate(*t.DueDate)
		todayDate := truncateToDate(today)
		if dueDate.Equal(todayDate) {
			return "due today"
		}
		if dueDate.Before(todayDate) {
			return fmt.Sprintf("overdue by %d working day(s)", WorkingDaysBetween(dueDate, todayDate, holidays))
		}
		return fmt.Sprintf("due in %d working day(s)", WorkingDaysBetween(todayDate, dueDate, holidays))
	case "importance":
		if t.Importance >= 8 {
			return fmt.Sprintf("high importance (%d/10)", t.Importance)
		}
		return fmt.Sprintf("importance %.0f/10", s.Importance)
	case "effort":
		hours := t.EstimatedHours
		if hours <= 0 {
			hours = DefaultEstimatedHours
		}
		if s.Effort >= 8 {
			return fmt.Sprintf("quick win (%gh estimated)", hours)
		}
		return fmt.Sprintf("estimated effort %gh", hours)
	default:
		if counts.blocks > 0 {
			return fmt.Sprintf("unblocks %d task(s)", counts.blocks)
		}
		if counts.outstanding > 0 {
			return fmt.Sprintf("blocked by %d dependenc%s", counts.outstanding, pluralY(counts.outstanding))
		}
		return "no dependencies"
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
