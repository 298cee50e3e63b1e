// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedisBackend(t *testing.T, prefix string) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisBackendFromClient(client, prefix)
	t.Cleanup(func() { _ = backend.Close() })
	return backend, mr
}

func TestRedisBackend_GetSet(t *testing.T) {
	backend, mr := newMiniRedisBackend(t, "nx:")
	ctx := context.Background()

	require.NoError(t, backend.Ping(ctx))
	assert.Equal(t, "redis", backend.Name())

	_, err := backend.Get(ctx, "rec:trending:n=5:days=7")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, backend.Set(ctx, "rec:trending:n=5:days=7", []byte(`[]`), time.Minute))
	got, err := backend.Get(ctx, "rec:trending:n=5:days=7")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	assert.True(t, mr.Exists("nx:rec:trending:n=5:days=7"), "keys are written under the prefix")
	assert.Equal(t, time.Minute, mr.TTL("nx:rec:trending:n=5:days=7"))

	mr.FastForward(2 * time.Minute)
	_, err = backend.Get(ctx, "rec:trending:n=5:days=7")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisBackend_DeletePattern(t *testing.T) {
	backend, mr := newMiniRedisBackend(t, "nx:")
	ctx := context.Background()

	// More than one SCAN/DEL batch.
	for i := 0; i < 250; i++ {
		require.NoError(t, backend.Set(ctx, fmt.Sprintf("rec:collaborative:u=u%d:a=:n=10:h", i), []byte("x"), time.Minute))
	}
	require.NoError(t, backend.Set(ctx, "rec:hybrid:u=u7:a=:n=10:h", []byte("x"), time.Minute))
	require.NoError(t, mr.Set("foreign:key", "keep"))

	n, err := backend.DeletePattern(ctx, "rec:*:u=u7:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = backend.DeletePattern(ctx, "rec:*")
	require.NoError(t, err)
	assert.Equal(t, 249, n)

	assert.True(t, mr.Exists("foreign:key"))
	assert.Len(t, mr.Keys(), 1)
}

func TestRedisBackend_Unreachable(t *testing.T) {
	backend, mr := newMiniRedisBackend(t, "")
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, backend.Ping(ctx))
	_, err := backend.Get(ctx, "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
