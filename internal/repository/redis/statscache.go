package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lumilearn/lumilearn-api/internal/metrics"
)

const (
	statsCachePrefix = "stats:"
	statsCacheTTL    = 10 * time.Minute
)

// StatsCache caches computed personal stats per user in Redis
type StatsCache struct {
	client *Client
}

// NewStatsCache creates a new stats cache
func NewStatsCache(client *Client) *StatsCache {
	return &StatsCache{client: client}
}

// GetStats retrieves cached personal stats for a user
func (c *StatsCache) GetStats(ctx context.Context, userID uuid.UUID) (*metrics.PersonalStats, error) {
	key := fmt.Sprintf("%s%s", statsCachePrefix, userID.String())

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var stats metrics.PersonalStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	return &stats, nil
}

// SetStats caches personal stats for a user
func (c *StatsCache) SetStats(ctx context.Context, userID uuid.UUID, stats *metrics.PersonalStats) error {
	key := fmt.Sprintf("%s%s", statsCachePrefix, userID.String())

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	return c.client.rdb.Set(ctx, key, data, statsCacheTTL).Err()
}

// Invalidate removes cached stats for a user
func (c *StatsCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", statsCachePrefix, userID.String())
	return c.client.rdb.Del(ctx, key).Err()
}
