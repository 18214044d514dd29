package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/commands"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/scoring"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/domain/task"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/cache"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/holidays"
	"github.com/felixgeelhaar/taskrank/internal/prioritization/infrastructure/persistence"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database (one of the two is set, depending on mode)
	SQLDB  *sql.DB
	PGPool *pgxpool.Pool

	// Redis (server mode only, optional)
	RedisClient *redis.Client

	// Repositories
	TaskRepo task.Repository

	// Publishers
	EventPublisher eventbus.Publisher

	// Analysis
	AnalysisCache queries.AnalysisCache
	Holidays      scoring.HolidaySet

	// Command handlers
	CreateTaskHandler   *commands.CreateTaskHandler
	UpdateTaskHandler   *commands.UpdateTaskHandler
	CompleteTaskHandler *commands.CompleteTaskHandler
	DeleteTaskHandler   *commands.DeleteTaskHandler

	// Query handlers
	ListTasksHandler    *queries.ListTasksHandler
	GetTaskHandler      *queries.GetTaskHandler
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler

	// Health checks (server mode)
	Health *observability.HealthRegistry
}

// NewLocalContainer creates a container for local mode with SQLite.
// This provides zero-config operation without requiring PostgreSQL,
// Redis, or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	db, err := openSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.SQLDB = db
	c.TaskRepo = persistence.NewSQLiteTaskRepository(db)

	// Local mode has no broker and no cache.
	c.EventPublisher = eventbus.NewNoopPublisher(logger)

	c.Holidays = loadHolidays(cfg, logger)
	c.wireHandlers()

	logger.Info("local mode container initialized",
		"database", cfg.SQLitePath,
		"driver", "sqlite",
	)

	return c, nil
}

// NewServerContainer creates a container for server mode with
// PostgreSQL and optional Redis and RabbitMQ.
func NewServerContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.PGPool = pool
	c.TaskRepo = persistence.NewPostgresTaskRepository(pool)
	c.Health.Register("postgres", observability.DatabaseHealthChecker(pool.Ping))
	logger.Info("connected to database")

	// Connect to Redis (optional in development)
	if cfg.RedisURL != "" && cfg.CacheEnabled {
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, err
			}
			logger.Warn("Redis not available, analysis results will not be cached", "error", err)
		} else {
			c.RedisClient = client
			c.AnalysisCache = cache.NewRedisAnalysisCache(client, cfg.AnalysisCacheTTL, logger)
			c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
			logger.Info("connected to Redis")
		}
	}

	// Create event publisher
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				pool.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher")
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = publisher
		}
	} else {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	}

	c.Holidays = loadHolidays(cfg, logger)
	c.wireHandlers()

	return c, nil
}

// wireHandlers builds the command and query handlers from the
// repositories and services already set on the container.
func (c *Container) wireHandlers() {
	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.EventPublisher)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.EventPublisher)
	c.CompleteTaskHandler = commands.NewCompleteTaskHandler(c.TaskRepo, c.EventPublisher)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo, c.EventPublisher)

	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
	c.AnalyzeTasksHandler = queries.NewAnalyzeTasksHandler(c.TaskRepo, c.AnalysisCache, c.Holidays)
	c.AnalyzeTasksHandler.SetPublisher(c.EventPublisher, c.Logger)
	c.SuggestTasksHandler = queries.NewSuggestTasksHandler(c.AnalyzeTasksHandler)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.PGPool != nil {
		c.PGPool.Close()
		c.Logger.Info("PostgreSQL connection closed")
	}

	if c.SQLDB != nil {
		if err := c.SQLDB.Close(); err != nil {
			c.Logger.Warn("error closing SQLite connection", "error", err)
		} else {
			c.Logger.Info("SQLite connection closed")
		}
	}
}

// openSQLite opens (creating if necessary) the SQLite database at path.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent handler calls.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// loadHolidays reads the configured holiday calendar. A missing or
// unreadable calendar degrades to weekends-only working days.
func loadHolidays(cfg *config.Config, logger *slog.Logger) scoring.HolidaySet {
	if cfg.HolidayCalendarPath == "" {
		return scoring.NewHolidaySet()
	}
	set, err := holidays.LoadFile(cfg.HolidayCalendarPath)
	if err != nil {
		logger.Warn("failed to load holiday calendar, using weekends only",
			"path", cfg.HolidayCalendarPath,
			"error", err,
		)
		return scoring.NewHolidaySet()
	}
	logger.Info("loaded holiday calendar",
		"path", cfg.HolidayCalendarPath,
		"holidays", set.Len(),
	)
	return set
}
