package task

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	addDueDate    string
	addHours      float64
	addImportance int
	addDependsOn  []string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with a title and optional scoring inputs.

Examples:
  taskrank task add "Complete project report"
  taskrank task add "Review PR" --due 2026-09-01 --hours 0.5
  taskrank task add "Write docs" --importance 8 --depends-on <task-id>`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		title := args[0]

		createCmd := commands.CreateTaskCommand{
			UserID:         app.CurrentUserID,
			Title:          title,
			EstimatedHours: addHours,
			Importance:     addImportance,
		}

		if addDueDate != "" {
			parsed, err := time.Parse("2006-01-02", addDueDate)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			createCmd.DueDate = &parsed
		}

		for _, dep := range addDependsOn {
			id, err := uuid.Parse(dep)
			if err != nil {
				return fmt.Errorf("invalid dependency ID %q: %w", dep, err)
			}
			createCmd.Dependencies = append(createCmd.Dependencies, id)
		}

		ctx := cmd.Context()
		result, err := app.CreateTaskHandler.Handle(ctx, createCmd)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Printf("Task added: %s\n", result.TaskID)
		fmt.Printf("  title: %s\n", title)
		if addDueDate != "" {
			fmt.Printf("  due: %s\n", addDueDate)
		}
		if addHours > 0 {
			fmt.Printf("  estimated: %.1f hours\n", addHours)
		}
		if addImportance > 0 {
			fmt.Printf("  importance: %d/10\n", addImportance)
		}

		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDueDate, "due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().Float64Var(&addHours, "hours", 0, "estimated effort in hours")
	addCmd.Flags().IntVarP(&addImportance, "importance", "i", 0, "importance (1-10)")
	addCmd.Flags().StringSliceVar(&addDependsOn, "depends-on", nil, "IDs of tasks this task depends on")
}
