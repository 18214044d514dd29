package cli

import (
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Task Command Handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	UpdateTaskHandler   *commands.UpdateTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Query Handlers
	ListTasksHandler    *queries.ListTasksHandler
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler

	// Current user (configured per environment)
	CurrentUserID uuid.UUID

	// DefaultStrategy names the weighting strategy used when a command
	// does not specify one.
	DefaultStrategy string

	// SuggestionLimit bounds suggest output when no --limit is given.
	SuggestionLimit int
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
