package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Federated-ICS/backend-webapp/internal/api/dto"
	"github.com/Federated-ICS/backend-webapp/internal/config"
)

const dashboardKey = "dashboard:stats"

// NewClient connects to Redis using the configured URL.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// DashboardCache keeps the latest dashboard snapshot so stats reads don't
// hit Postgres on every poll.
type DashboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot; ok is false on a miss.
func (c *DashboardCache) Get(ctx context.Context) (dto.DashboardSnapshot, bool, error) {
	var snap dto.DashboardSnapshot

	data, err := c.rdb.Get(ctx, dashboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("get dashboard cache: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		// a corrupt entry is treated as a miss and overwritten on next Set
		return snap, false, nil
	}
	return snap, true, nil
}

// Set stores the snapshot with the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, snap dto.DashboardSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal dashboard snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, dashboardKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot so the next read recomputes.
func (c *DashboardCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, dashboardKey).Err(); err != nil {
		return fmt.Errorf("invalidate dashboard cache: %w", err)
	}
	return nil
}
