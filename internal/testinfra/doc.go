// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

// Package testinfra starts real dependencies in containers for integration
// tests, using testcontainers-go.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # Redis
//
//	func TestRedisBackend(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.NewRedisContainer(ctx)
//	    require.NoError(t, err)
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    backend := cache.NewRedisBackend(cache.RedisConfig{Addr: redis.Addr})
//	    // ...
//	}
//
// Tests call SkipIfNoDocker first so they skip cleanly on machines without
// a Docker daemon.
package testinfra
