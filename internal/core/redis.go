// marciomma | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marciomma/latam-portifolio-status-sub001/internal/config"
)

// Redis owns the client handle. Reset swaps the client in place so holders
// of *Redis survive a reconnect; callers must go through Client().
type Redis struct {
	mu     sync.RWMutex
	client *redis.Client
	cfg    config.RedisConfig
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	client, err := dial(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Redis{client: client, cfg: cfg}, nil
}

func dial(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

func (r *Redis) Client() *redis.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Reset closes the current connection pool and dials a fresh one.
func (r *Redis) Reset(ctx context.Context) error {
	client, err := dial(ctx, r.cfg)
	if err != nil {
		return fmt.Errorf("reset redis: %w", err)
	}

	r.mu.Lock()
	old := r.client
	r.client = client
	r.mu.Unlock()

	if old != nil {
		//nolint:errcheck // old pool is being discarded
		_ = old.Close()
	}

	return nil
}

func (r *Redis) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client().Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client().PoolStats()
}
