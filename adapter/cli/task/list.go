package task

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/spf13/cobra"
)

var (
	listStatus string
	listSort   string
	listOrder  string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List your tasks, pending ones by default.

Examples:
  taskrank task list
  taskrank task list --status all
  taskrank task list --sort created_at --order desc --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListTasksHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			UserID:    app.CurrentUserID,
			Status:    listStatus,
			SortBy:    listSort,
			SortOrder: listOrder,
			Limit:     listLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		for _, t := range tasks {
			fmt.Printf("%s  %s\n", t.ID, t.Title)
			details := []string{"status: " + t.Status}
			if t.DueDate != nil {
				details = append(details, "due: "+t.DueDate.Format("2006-01-02"))
			}
			if t.EstimatedHours > 0 {
				details = append(details, fmt.Sprintf("estimated: %.1fh", t.EstimatedHours))
			}
			if t.Importance > 0 {
				details = append(details, fmt.Sprintf("importance: %d/10", t.Importance))
			}
			if len(t.Dependencies) > 0 {
				details = append(details, fmt.Sprintf("depends on %d task(s)", len(t.Dependencies)))
			}
			fmt.Printf("  %s\n", strings.Join(details, ", "))
		}
		fmt.Printf("\n%d task(s)\n", len(tasks))

		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (pending, completed, all)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort field (due_date, created_at)")
	listCmd.Flags().StringVar(&listOrder, "order", "", "sort order (asc, desc)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of tasks to show")
}
