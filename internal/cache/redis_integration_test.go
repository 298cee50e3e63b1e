// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/newsxpress/internal/testinfra"
)

func TestRedisBackend_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx := context.Background()
	container, err := testinfra.NewRedisContainer(ctx)
	require.NoError(t, err)
	defer testinfra.CleanupContainer(t, ctx, container)

	backend := NewRedisBackend(RedisConfig{Addr: container.Addr, PoolSize: 4, KeyPrefix: "it:"})
	defer backend.Close()
	require.NoError(t, backend.Ping(ctx))

	// Enough keys to need several SCAN pages.
	for i := 0; i < 250; i++ {
		require.NoError(t, backend.Set(ctx, fmt.Sprintf("rec:collaborative:user=u%d:n=5", i), []byte(`[]`), time.Minute))
	}
	require.NoError(t, backend.Set(ctx, "rec:trending:n=5:days=7", []byte(`[]`), time.Minute))

	removed, err := backend.DeletePattern(ctx, "rec:collaborative:*")
	require.NoError(t, err)
	assert.Equal(t, 250, removed)

	_, err = backend.Get(ctx, "rec:trending:n=5:days=7")
	assert.NoError(t, err)

	results := NewResultCache(backend, DefaultConfig(), zerolog.Nop())
	stats := results.Stats(ctx)
	assert.Equal(t, "redis", stats.Backend)
	assert.True(t, stats.Available)
}
