package task

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/persistence"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *cli.App {
	t.Helper()

	repo := persistence.NewMemoryTaskRepository()
	publisher := eventbus.NewNoopPublisher(nil)
	analyze := queries.NewAnalyzeTasksHandler(repo, nil, scoring.NewHolidaySet())

	app := &cli.App{
		CreateTaskHandler:   commands.NewCreateTaskHandler(repo, publisher),
		UpdateTaskHandler:   commands.NewUpdateTaskHandler(repo, publisher),
		CompleteTaskHandler: commands.NewCompleteTaskHandler(repo, publisher),
		DeleteTaskHandler:   commands.NewDeleteTaskHandler(repo, publisher),
		ListTasksHandler:    queries.NewListTasksHandler(repo),
		AnalyzeTasksHandler: analyze,
		SuggestTasksHandler: queries.NewSuggestTasksHandler(analyze),
		CurrentUserID:       uuid.New(),
		DefaultStrategy:     "smart_balance",
		SuggestionLimit:     3,
	}
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

// resetFlags clears flag state left behind by a previous execution.
func resetFlags() {
	addDueDate, addHours, addImportance, addDependsOn = "", 0, 0, nil
	listStatus, listSort, listOrder, listLimit = "", "", "", 0
	updateTitle, updateDueDate, updateClearDue = "", "", false
	updateHours, updateImportance, updateDependsOn = 0, 0, nil
	for _, c := range Cmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			f.Changed = false
		})
	}
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	Cmd.SetArgs(args)
	return Cmd.ExecuteContext(context.Background())
}

func listTasks(t *testing.T, app *cli.App, status string) []queries.TaskDTO {
	t.Helper()
	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{
		UserID: app.CurrentUserID,
		Status: status,
	})
	require.NoError(t, err)
	return tasks
}

func TestAddCommand(t *testing.T) {
	app := newTestApp(t)

	err := runCommand(t, "add", "Buy milk", "--due", "2026-09-01", "--hours", "0.5", "--importance", "7")
	require.NoError(t, err)

	tasks := listTasks(t, app, "all")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, "2026-09-01", tasks[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, 0.5, tasks[0].EstimatedHours)
	assert.Equal(t, 7, tasks[0].Importance)
}

func TestAddCommand_InvalidDueDate(t *testing.T) {
	newTestApp(t)

	err := runCommand(t, "add", "Bad date", "--due", "someday")
	assert.Error(t, err)
}

func TestDoneCommand(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, runCommand(t, "add", "Finish me"))

	tasks := listTasks(t, app, "pending")
	require.Len(t, tasks, 1)

	require.NoError(t, runCommand(t, "done", tasks[0].ID.String()))

	assert.Empty(t, listTasks(t, app, "pending"))
	assert.Len(t, listTasks(t, app, "completed"), 1)
}

func TestDoneCommand_InvalidID(t *testing.T) {
	newTestApp(t)

	err := runCommand(t, "done", "not-a-uuid")
	assert.Error(t, err)
}

func TestRmCommand(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, runCommand(t, "add", "Remove me"))

	tasks := listTasks(t, app, "all")
	require.Len(t, tasks, 1)

	require.NoError(t, runCommand(t, "rm", tasks[0].ID.String()))
	assert.Empty(t, listTasks(t, app, "all"))
}

func TestUpdateCommand(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, runCommand(t, "add", "Old title", "--due", "2026-09-01"))

	tasks := listTasks(t, app, "all")
	require.Len(t, tasks, 1)
	id := tasks[0].ID.String()

	require.NoError(t, runCommand(t, "update", id, "--title", "New title", "--clear-due"))

	tasks = listTasks(t, app, "all")
	require.Len(t, tasks, 1)
	assert.Equal(t, "New title", tasks[0].Title)
	assert.Nil(t, tasks[0].DueDate)
}
