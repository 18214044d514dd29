package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/spf13/cobra"
)

var (
	suggestStrategy string
	suggestLimit    int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest what to work on next",
	Long: `Rank pending tasks and print the top few with a reason for
each recommendation.

Examples:
  taskrank suggest
  taskrank suggest --limit 5 --strategy fastest_wins`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		strategy := suggestStrategy
		if strategy == "" {
			strategy = app.DefaultStrategy
		}
		limit := suggestLimit
		if limit <= 0 {
			limit = app.SuggestionLimit
		}

		suggestions, err := app.SuggestTasksHandler.Handle(cmd.Context(), queries.SuggestTasksQuery{
			UserID:   app.CurrentUserID,
			Strategy: strategy,
			Limit:    limit,
		})
		if err != nil {
			return fmt.Errorf("failed to suggest tasks: %w", err)
		}

		if len(suggestions) == 0 {
			fmt.Println("Nothing to suggest, no pending tasks.")
			return nil
		}

		fmt.Println("Work on next:")
		for _, s := range suggestions {
			fmt.Printf("%2d. %s\n", s.Rank, s.Title)
			fmt.Printf("      %s\n", s.Reason)
		}

		return nil
	},
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestStrategy, "strategy", "s", "",
		fmt.Sprintf("weighting strategy (%s)", strings.Join(scoring.StrategyNames(), ", ")))
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "number of suggestions")
	rootCmd.AddCommand(suggestCmd)
}
