package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/taskrank/adapter/api"
	"github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	logger.Info("starting taskrank server")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required in server mode")
		os.Exit(1)
	}

	defaultUserID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid TASKRANK_USER_ID", "error", err)
		os.Exit(1)
	}

	container, err := app.NewServerContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	tasks := api.NewTaskHandler(api.TaskHandlerConfig{
		CreateTask:    container.CreateTaskHandler,
		UpdateTask:    container.UpdateTaskHandler,
		CompleteTask:  container.CompleteTaskHandler,
		DeleteTask:    container.DeleteTaskHandler,
		ListTasks:     container.ListTasksHandler,
		GetTask:       container.GetTaskHandler,
		DefaultUserID: defaultUserID,
		Logger:        logger,
	})

	analyze := api.NewAnalyzeHandler(api.AnalyzeHandlerConfig{
		AnalyzeTasks:    container.AnalyzeTasksHandler,
		SuggestTasks:    container.SuggestTasksHandler,
		Holidays:        container.Holidays,
		DefaultStrategy: cfg.DefaultStrategy,
		DefaultUserID:   defaultUserID,
		Logger:          logger,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.APIAddr
	server := api.NewServer(serverCfg, tasks, analyze, container.Health, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}

	logger.Info("taskrank server stopped")
}
