// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/newsxpress/internal/metrics"
)

// BreakerConfig configures the circuit breaker in front of the backend.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Config configures a ResultCache.
type Config struct {
	// OpTimeout bounds Get and Set. Timeouts count as misses.
	OpTimeout time.Duration

	// InvalidateTimeout bounds pattern deletion, which scans the keyspace.
	InvalidateTimeout time.Duration

	Breaker BreakerConfig
}

// DefaultConfig returns conservative timeouts: a slow cache must never cost
// more than a recomputation.
func DefaultConfig() Config {
	return Config{
		OpTimeout:         250 * time.Millisecond,
		InvalidateTimeout: 10 * time.Second,
		Breaker: BreakerConfig{
			Name:             "result-cache",
			MaxRequests:      1,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// ResultCache fronts a Backend with bounded timeouts and a circuit breaker.
// Reads never fail: errors, timeouts and an open breaker all report a miss.
// Writes and invalidations return errors for the caller to log.
type ResultCache struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker[interface{}]
	cfg     Config
	logger  zerolog.Logger

	hits     atomic.Int64
	misses   atomic.Int64
	failures atomic.Int64
}

// NewResultCache creates a result cache over backend.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewResultCache(backend Backend, cfg Config, logger zerolog.Logger) *ResultCache {
	c := &ResultCache{
		backend: backend,
		cfg:     cfg,
		logger:  logger.With().Str("component", "result-cache").Str("backend", backend.Name()).Logger(),
	}
	c.breaker = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cfg.Breaker.Name,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Cache circuit breaker state changed")
			metrics.RecordBreakerState(name, float64(to))
		},
	})
	metrics.RecordBreakerState(cfg.Breaker.Name, float64(gobreaker.StateClosed))
	return c
}

// Backend returns the wrapped backend.
func (c *ResultCache) Backend() Backend { return c.backend }

// Get returns the value for key, or false on a miss or any failure.
func (c *ResultCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	v, err := c.breaker.Execute(func() (interface{}, error) {
		data, err := c.backend.Get(ctx, key)
		if errors.Is(err, ErrMiss) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		c.fail("get", key, err)
		c.misses.Add(1)
		return nil, false
	}
	data, _ := v.([]byte)
	if data == nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

// Set stores value under key for ttl.
func (c *ResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.backend.Set(ctx, key, value, ttl)
	})
	if err != nil {
		c.fail("set", key, err)
		return unavailable(err)
	}
	return nil
}

// Invalidate removes every key matching pattern.
func (c *ResultCache) Invalidate(ctx context.Context, pattern string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.InvalidateTimeout)
	defer cancel()

	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.backend.DeletePattern(ctx, pattern)
	})
	if err != nil {
		c.fail("invalidate", pattern, err)
		return 0, unavailable(err)
	}
	n, _ := v.(int)
	return n, nil
}

// Stats returns hit counters and backend health. It pings the backend.
func (c *ResultCache) Stats(ctx context.Context) Stats {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.OpTimeout)
	defer cancel()

	hits, misses := c.hits.Load(), c.misses.Load()
	state := c.breaker.State()
	stats := Stats{
		Backend:   c.backend.Name(),
		State:     state.String(),
		Available: state != gobreaker.StateOpen && c.backend.Ping(ctx) == nil,
		Hits:      hits,
		Misses:    misses,
		Errors:    c.failures.Load(),
		HitRate:   hitRate(hits, misses),
	}
	if sized, ok := c.backend.(interface{ Len() int }); ok {
		stats.Keys = int64(sized.Len())
	}
	return stats
}

// Close closes the backend.
func (c *ResultCache) Close() error {
	return c.backend.Close()
}

func (c *ResultCache) fail(op, key string, err error) {
	c.failures.Add(1)
	metrics.RecordCacheError(op)
	c.logger.Debug().Err(err).Str("op", op).Str("key", key).Msg("Cache operation failed")
}

func unavailable(err error) error {
	if errors.Is(err, ErrCacheUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
}
