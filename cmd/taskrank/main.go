package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/adapter/cli/task"
	"github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/google/uuid"
)

func main() {
	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.LogLevel == "debug" {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid TASKRANK_USER_ID", "error", err)
		os.Exit(1)
	}

	container, err := app.NewLocalContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(&cli.App{
		CreateTaskHandler:   container.CreateTaskHandler,
		UpdateTaskHandler:   container.UpdateTaskHandler,
		CompleteTaskHandler: container.CompleteTaskHandler,
		DeleteTaskHandler:   container.DeleteTaskHandler,
		ListTasksHandler:    container.ListTasksHandler,
		AnalyzeTasksHandler: container.AnalyzeTasksHandler,
		SuggestTasksHandler: container.SuggestTasksHandler,
		CurrentUserID:       userID,
		DefaultStrategy:     cfg.DefaultStrategy,
		SuggestionLimit:     cfg.SuggestionLimit,
	})

	// Register command groups
	cli.AddCommand(task.Cmd)

	cli.Execute()
}
