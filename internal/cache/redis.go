// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the SCAN COUNT hint and the DEL batch size.
const scanBatch = 100

// RedisConfig configures a RedisBackend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	PoolSize  int
	KeyPrefix string
}

// RedisBackend stores entries in Redis. Keys are written under KeyPrefix so
// several deployments can share one database.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisBackend creates a backend with its own client. It does not dial;
// use Ping to check reachability.
func NewRedisBackend(cfg RedisConfig) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	})
	return NewRedisBackendFromClient(client, cfg.KeyPrefix)
}

// NewRedisBackendFromClient wraps an existing client.
func NewRedisBackendFromClient(client redis.UniversalClient, keyPrefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: keyPrefix}
}

// Name implements Backend.
func (r *RedisBackend) Name() string { return "redis" }

// Get implements Backend.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set implements Backend.
func (r *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// DeletePattern implements Backend using SCAN so large keyspaces never block
// the server the way KEYS would. The scan completes before any key is
// deleted: deleting mid-iteration can move unvisited keys behind the cursor.
func (r *RedisBackend) DeletePattern(ctx context.Context, pattern string) (int, error) {
	var keys []string
	seen := make(map[string]struct{})
	iter := r.client.Scan(ctx, 0, r.prefix+pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan: %w", err)
	}

	removed := 0
	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		n, err := r.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, fmt.Errorf("redis del: %w", err)
		}
		removed += int(n)
	}
	return removed, nil
}

// Ping implements Backend.
func (r *RedisBackend) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close implements Backend.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
