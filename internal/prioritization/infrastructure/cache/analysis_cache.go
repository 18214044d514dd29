// Package cache stores computed analyses in Redis so repeated queries
// over an unchanged task set skip the scoring pass. Redis is optional:
// every failure path degrades to a cache miss and the caller recomputes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/prioritization/application/queries"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// DefaultTTL bounds how long a cached analysis stays valid. The
// fingerprint already covers task changes; the TTL covers date
// rollover and abandoned keys.
const DefaultTTL = 15 * time.Minute

// RedisAnalysisCache implements queries.AnalysisCache on Redis, with a
// circuit breaker so a struggling Redis cannot slow down analysis.
type RedisAnalysisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewRedisAnalysisCache creates a cache with the given TTL. A zero ttl
// uses DefaultTTL.
func NewRedisAnalysisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisAnalysisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "analysis-cache",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &RedisAnalysisCache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker[any](settings),
		logger:  logger,
	}
}

// Get fetches a cached analysis. Any Redis problem is reported as a miss.
func (c *RedisAnalysisCache) Get(ctx context.Context, userID uuid.UUID, fingerprint string) (*queries.AnalysisDTO, bool) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.client.Get(ctx, cacheKey(userID, fingerprint)).Bytes()
	})
	if err != nil {
		if err != redis.Nil && err != gobreaker.ErrOpenState {
			c.logger.Warn("analysis cache read failed", "error", err)
		}
		return nil, false
	}

	var analysis queries.AnalysisDTO
	if err := json.Unmarshal(result.([]byte), &analysis); err != nil {
		c.logger.Warn("analysis cache entry corrupt", "error", err)
		return nil, false
	}
	return &analysis, true
}

// Set stores an analysis. Failures are logged and otherwise ignored.
func (c *RedisAnalysisCache) Set(ctx context.Context, userID uuid.UUID, fingerprint string, analysis *queries.AnalysisDTO) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		c.logger.Warn("failed to marshal analysis for cache", "error", err)
		return
	}

	_, err = c.breaker.Execute(func() (any, error) {
		return nil, c.client.Set(ctx, cacheKey(userID, fingerprint), payload, c.ttl).Err()
	})
	if err != nil && err != gobreaker.ErrOpenState {
		c.logger.Warn("analysis cache write failed", "error", err)
	}
}

func cacheKey(userID uuid.UUID, fingerprint string) string {
	return fmt.Sprintf("taskrank:analysis:%s:%s", userID, fingerprint)
}

var _ queries.AnalysisCache = (*RedisAnalysisCache)(nil)
