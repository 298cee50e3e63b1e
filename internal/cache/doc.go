// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package cache stores serialized recommendation results.

# Overview

A Backend is a byte-oriented key-value store with per-entry TTL and glob
pattern deletion. Two backends are provided:
  - MemoryBackend: in-process map with lazy expiry and a periodic sweep
  - RedisBackend: go-redis client; pattern deletion uses SCAN and batched DEL

ResultCache wraps a Backend for serving:
  - Every Get and Set runs under a short timeout (Config.OpTimeout)
  - A gobreaker circuit breaker stops calling a failing backend
  - Get never fails; errors, timeouts and an open breaker are misses
  - Set and Invalidate return ErrCacheUnavailable for the caller to log

# Usage Example

	backend := cache.NewRedisBackend(cache.RedisConfig{Addr: "localhost:6379"})
	results := cache.NewResultCache(backend, cache.DefaultConfig(), logger)

	if data, ok := results.Get(ctx, key); ok {
	    // serve data
	}
	_ = results.Set(ctx, key, data, 15*time.Minute)
	removed, err := results.Invalidate(ctx, "rec:*")

# Keys

GenerateKey hashes a parameter value into a compact key suffix. Keys must not
contain '/', since the memory backend matches patterns with path.Match.
*/
package cache
