// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

var (
	// ErrMiss is returned by a Backend when a key is absent or expired.
	ErrMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the backend is unreachable or the
	// breaker guarding it is open.
	ErrCacheUnavailable = errors.New("cache unavailable")
)

// Backend is a byte-oriented key-value store with TTL and glob invalidation.
//
// Patterns use Redis glob syntax restricted to what both backends agree on:
// '*' and '?' with literal everything else. Keys must not contain '/'.
type Backend interface {
	// Get returns the stored value or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A non-positive ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePattern removes every key matching pattern and returns how many
	// were removed.
	DeletePattern(ctx context.Context, pattern string) (int, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Name identifies the backend in logs and stats.
	Name() string

	// Close releases connections and background goroutines.
	Close() error
}

// Stats is a point-in-time view of result cache counters.
type Stats struct {
	Backend   string  `json:"backend"`
	Available bool    `json:"available"`
	State     string  `json:"breaker_state,omitempty"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Errors    int64   `json:"errors"`
	HitRate   float64 `json:"hit_rate"`
	Keys      int64   `json:"keys,omitempty"`
}

// hitRate returns hits as a percentage of lookups.
func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total) * 100.0
}

// GenerateKey creates a cache key from a prefix and a parameter value by
// hashing the parameters' JSON encoding.
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
