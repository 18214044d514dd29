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
	updateTitle      string
	updateDueDate    string
	updateClearDue   bool
	updateHours      float64
	updateImportance int
	updateDependsOn  []string
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update one or more fields of a task. Only the flags you pass
are changed.

Examples:
  taskrank task update <task-id> --title "New title"
  taskrank task update <task-id> --due 2026-09-15
  taskrank task update <task-id> --clear-due --importance 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateTaskHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID %q: %w", args[0], err)
		}

		updateCmd := commands.UpdateTaskCommand{
			TaskID: taskID,
			UserID: app.CurrentUserID,
		}

		if cmd.Flags().Changed("title") {
			updateCmd.Title = &updateTitle
		}
		if updateClearDue {
			var cleared *time.Time
			updateCmd.DueDate = &cleared
		} else if cmd.Flags().Changed("due") {
			parsed, err := time.Parse("2006-01-02", updateDueDate)
			if err != nil {
				return fmt.Errorf("invalid due date format (use YYYY-MM-DD): %w", err)
			}
			duePtr := &parsed
			updateCmd.DueDate = &duePtr
		}
		if cmd.Flags().Changed("hours") {
			updateCmd.EstimatedHours = &updateHours
		}
		if cmd.Flags().Changed("importance") {
			updateCmd.Importance = &updateImportance
		}
		if cmd.Flags().Changed("depends-on") {
			deps := make([]uuid.UUID, 0, len(updateDependsOn))
			for _, dep := range updateDependsOn {
				id, err := uuid.Parse(dep)
				if err != nil {
					return fmt.Errorf("invalid dependency ID %q: %w", dep, err)
				}
				deps = append(deps, id)
			}
			updateCmd.Dependencies = &deps
		}

		if err := app.UpdateTaskHandler.Handle(cmd.Context(), updateCmd); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Printf("Task updated: %s\n", taskID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateDueDate, "due", "", "new due date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&updateClearDue, "clear-due", false, "remove the due date")
	updateCmd.Flags().Float64Var(&updateHours, "hours", 0, "new estimated effort in hours")
	updateCmd.Flags().IntVarP(&updateImportance, "importance", "i", 0, "new importance (1-10)")
	updateCmd.Flags().StringSliceVar(&updateDependsOn, "depends-on", nil, "replacement dependency list")
}
