// Package cache provides the Redis-backed day-view cache.
// The cache is strictly an accelerator: every failure degrades to a
// recompute, never to an error for the caller.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"larder/internal/core/types"
	"larder/internal/domain/reports"
)

const dayViewKeyPrefix = "larder:dayview:"

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// DayViewCache stores assembled day views in Redis.
// Implements reports.DayViewCache and ledger.DayCache.
type DayViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and returns the cache.
func New(ctx context.Context, cfg Config) (*DayViewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DayViewCache{client: client, ttl: ttl}, nil
}

// Close releases the Redis connection.
func (c *DayViewCache) Close() error {
	return c.client.Close()
}

func dayViewKey(day types.Date) string {
	return dayViewKeyPrefix + day.String()
}

// GetDayView returns the cached view for a date, or (nil, nil) on miss.
func (c *DayViewCache) GetDayView(ctx context.Context, day types.Date) (*reports.DayView, error) {
	raw, err := c.client.Get(ctx, dayViewKey(day)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var view reports.DayView
	if err := json.Unmarshal(raw, &view); err != nil {
		// Corrupt entry: drop it and treat as a miss.
		c.client.Del(ctx, dayViewKey(day))
		return nil, nil
	}
	return &view, nil
}

// SetDayView stores an assembled view with the configured TTL.
func (c *DayViewCache) SetDayView(ctx context.Context, view *reports.DayView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal day view: %w", err)
	}
	if err := c.client.Set(ctx, dayViewKey(view.Date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// InvalidateDay drops the cached view for a date.
// Called after every accepted mutation touching that date.
func (c *DayViewCache) InvalidateDay(ctx context.Context, day types.Date) error {
	if err := c.client.Del(ctx, dayViewKey(day)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
