package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/francisjavinico/backend-tintado/internal/domain/finance"
	"github.com/francisjavinico/backend-tintado/internal/infrastructure/config"
)

const dashboardKey = "tintado:dashboard:summary"

// DashboardCache keeps the dashboard summary in Redis so the landing
// page does not hit the grouped ledger queries on every load. Writes to
// the ledger invalidate the key; the TTL bounds staleness either way.
type DashboardCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// NewDashboardCache creates a cache with its own Redis connection
func NewDashboardCache(cfg config.RedisConfig, logger *zap.Logger) (*DashboardCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardCache{
		client:     client,
		ownsClient: true,
		ttl:        cfg.DashboardTTL,
		logger:     logger,
	}, nil
}

// NewDashboardCacheWithClient creates a cache over an existing client.
// The caller retains ownership of the client and closes it.
func NewDashboardCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *DashboardCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached summary, or nil on a miss. Redis failures read
// as misses so the dashboard degrades to the database.
func (c *DashboardCache) Get(ctx context.Context) (*finance.DashboardSummary, error) {
	data, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		c.logger.Warn("dashboard cache read failed", zap.Error(err))
		return nil, nil
	}

	var summary finance.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Warn("dashboard cache entry corrupt, dropping it", zap.Error(err))
		c.client.Del(ctx, dashboardKey)
		return nil, nil
	}
	return &summary, nil
}

// Set stores the summary for the configured TTL
func (c *DashboardCache) Set(ctx context.Context, summary *finance.DashboardSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardKey, data, c.ttl).Err()
}

// Invalidate drops the cached summary
func (c *DashboardCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, dashboardKey).Err(); err != nil {
		c.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

// Close releases the Redis connection when the cache owns it
func (c *DashboardCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}
