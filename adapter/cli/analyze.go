package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/spf13/cobra"
)

var analyzeStrategy string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score and rank pending tasks",
	Long: `Score every pending task and print them ranked by priority.

Each task gets urgency, importance, effort, and dependency sub-scores,
combined by the chosen weighting strategy.

Examples:
  taskrank analyze
  taskrank analyze --strategy deadline_driven`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.AnalyzeTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		strategy := analyzeStrategy
		if strategy == "" {
			strategy = app.DefaultStrategy
		}

		analysis, err := app.AnalyzeTasksHandler.Handle(cmd.Context(), queries.AnalyzeTasksQuery{
			UserID:   app.CurrentUserID,
			Strategy: strategy,
		})
		if err != nil {
			return fmt.Errorf("failed to analyze tasks: %w", err)
		}

		if len(analysis.Tasks) == 0 {
			fmt.Println("No pending tasks to analyze.")
			return nil
		}

		fmt.Printf("Analysis (%s strategy)\n\n", analysis.Strategy)
		for i, t := range analysis.Tasks {
			fmt.Printf("%2d. [%4.1f] %-8s %s\n", i+1, t.Score, t.Level, t.Title)
			fmt.Printf("      %s\n", t.Explanation)
		}

		if len(analysis.Warnings) > 0 {
			fmt.Println()
			for _, warning := range analysis.Warnings {
				fmt.Printf("warning: %s\n", warning)
			}
		}

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeStrategy, "strategy", "s", "",
		fmt.Sprintf("weighting strategy (%s)", strings.Join(scoring.StrategyNames(), ", ")))
	rootCmd.AddCommand(analyzeCmd)
}
