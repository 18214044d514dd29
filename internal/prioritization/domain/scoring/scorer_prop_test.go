package scoring

import (
	"fmt"
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// genTasks produces batches with arbitrary due dates, estimates,
// importance ratings, and dependency references, including dangling ids
// and cycles.
func genTasks(t *rapid.T, today time.Time) []Task {
	n := rapid.IntRange(0, 12).Draw(t, "n")
	tasks := make([]Task, 0, n)
	for i := 0; i < n; i++ {
		task := Task{
			ID:             fmt.Sprintf("task-%d", i),
			Title:          fmt.Sprintf("Task %d", i),
			EstimatedHours: rapid.Float64Range(-5, 200).Draw(t, "hours"),
			Importance:     rapid.IntRange(-5, 20).Draw(t, "importance"),
		}
		if rapid.Bool().Draw(t, "hasDue") {
			offset := rapid.IntRange(-60, 60).Draw(t, "dueOffset")
			due := today.AddDate(0, 0, offset)
			task.DueDate = &due
		}
		deps := rapid.IntRange(0, 3).Draw(t, "deps")
		for d := 0; d < deps; d++ {
			// May reference itself, a later task, or a missing id.
			task.Dependencies = append(task.Dependencies,
				fmt.Sprintf("task-%d", rapid.IntRange(0, n+2).Draw(t, "depTarget")))
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func TestAnalyzeProperties(t *testing.T) {
	today := date(2025, time.June, 2)
	holidays := NewHolidaySet(date(2025, time.June, 19), date(2025, time.July, 4))

	rapid.Check(t, func(rt *rapid.T) {
		tasks := genTasks(rt, today)
		strategy := rapid.SampledFrom(StrategyNames()).Draw(rt, "strategy")

		result, err := Analyze(tasks, strategy, today, holidays)
		if err != nil {
			rt.Fatalf("analyze failed: %v", err)
		}
		if len(result.Tasks) != len(tasks) {
			rt.Fatalf("got %d scored tasks for %d inputs", len(result.Tasks), len(tasks))
		}

		for i, st := range result.Tasks {
			if math.IsNaN(st.Score) || math.IsInf(st.Score, 0) {
				rt.Fatalf("task %s has non-finite score %v", st.ID, st.Score)
			}
			if st.Score < 0 || st.Score > 10 {
				rt.Fatalf("task %s score %v outside [0,10]", st.ID, st.Score)
			}
			if i > 0 && result.Tasks[i-1].Score < st.Score {
				rt.Fatalf("tasks not sorted descending at index %d", i)
			}
			if st.Explanation == "" {
				rt.Fatalf("task %s has empty explanation", st.ID)
			}
			for _, sub := range []float64{st.Scores.Importance, st.Scores.Effort, st.Scores.Dependency} {
				if sub < 1 || sub > 10 {
					rt.Fatalf("task %s sub-score %v outside [1,10]", st.ID, sub)
				}
			}
			if st.Scores.Urgency < 0 {
				rt.Fatalf("task %s negative urgency %v", st.ID, st.Scores.Urgency)
			}
		}
	})
}
