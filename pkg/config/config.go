package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv          string
	LogLevel        string
	UserID          string
	DefaultStrategy string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL         string
	CacheEnabled     bool
	AnalysisCacheTTL time.Duration

	// Suggestions
	SuggestionLimit int

	// RabbitMQ
	RabbitMQURL string

	// API server
	APIAddr string

	// Holiday calendar (.ics file); empty means weekends only.
	HolidayCalendarPath string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		UserID:          getEnv("TASKRANK_USER_ID", "00000000-0000-0000-0000-000000000001"),
		DefaultStrategy: getEnv("TASKRANK_DEFAULT_STRATEGY", "smart_balance"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("TASKRANK_SQLITE_PATH", defaultSQLitePath()),

		RedisURL:         getEnv("REDIS_URL", ""),
		CacheEnabled:     getBoolEnv("TASKRANK_CACHE_ENABLED", true),
		AnalysisCacheTTL: getDurationEnv("TASKRANK_CACHE_TTL", 15*time.Minute),

		SuggestionLimit: getIntEnv("TASKRANK_SUGGEST_LIMIT", 3),

		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		APIAddr: getEnv("TASKRANK_API_ADDR", "0.0.0.0:8080"),

		HolidayCalendarPath: getEnv("TASKRANK_HOLIDAY_CALENDAR", ""),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskrank/taskrank.db"
	}
	return filepath.Join(home, ".taskrank", "taskrank.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
