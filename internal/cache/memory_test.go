// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend_BasicOperations(t *testing.T) {
	m := NewMemoryBackend(0)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "key1", []byte("value1"), time.Minute))
	value, err := m.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, []byte("value1"), value)

	_, err = m.Get(ctx, "key2")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryBackend_SetCopiesValue(t *testing.T) {
	m := NewMemoryBackend(0)
	defer m.Close()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, time.Minute))
	buf[0] = 'z'

	value, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), value)
}

func TestMemoryBackend_Expiration(t *testing.T) {
	m := NewMemoryBackend(0)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "short", []byte("v"), 50*time.Millisecond))
	require.NoError(t, m.Set(ctx, "forever", []byte("v"), 0))

	_, err := m.Get(ctx, "short")
	require.NoError(t, err, "value should exist immediately after set")

	time.Sleep(100 * time.Millisecond)

	_, err = m.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "forever")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), m.Evictions())
}

func TestMemoryBackend_CleanupSweep(t *testing.T) {
	m := NewMemoryBackend(20 * time.Millisecond)
	defer m.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 10*time.Millisecond))
	}
	require.NoError(t, m.Set(ctx, "keep", []byte("v"), time.Minute))

	assert.Eventually(t, func() bool { return m.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestMemoryBackend_DeletePattern(t *testing.T) {
	m := NewMemoryBackend(0)
	defer m.Close()
	ctx := context.Background()

	keys := []string{
		"rec:collaborative:u=u1:a=:n=10:aa",
		"rec:hybrid:u=u1:a=:n=10:bb",
		"rec:collaborative:u=u2:a=:n=10:cc",
		"rec:content:u=:a=x:n=5:dd",
		"other:key",
	}
	for _, k := range keys {
		require.NoError(t, m.Set(ctx, k, []byte("v"), time.Minute))
	}

	n, err := m.DeletePattern(ctx, "rec:*:u=u1:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = m.DeletePattern(ctx, "rec:*")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, 1, m.Len())
	_, err = m.Get(ctx, "other:key")
	assert.NoError(t, err)

	_, err = m.DeletePattern(ctx, "rec:[")
	assert.Error(t, err)
}

func TestMemoryBackend_Concurrency(t *testing.T) {
	m := NewMemoryBackend(0)
	defer m.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("rec:g%d:%d", id, i)
				_ = m.Set(ctx, key, []byte("v"), time.Minute)
				_, _ = m.Get(ctx, key)
				if i%25 == 0 {
					_, _ = m.DeletePattern(ctx, fmt.Sprintf("rec:g%d:*", id))
				}
			}
		}(g)
	}
	wg.Wait()
	assert.LessOrEqual(t, m.Len(), 1000)
}

func TestMemoryBackend_CloseIsIdempotent(t *testing.T) {
	m := NewMemoryBackend(time.Millisecond)
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Limit   int      `json:"limit"`
		Exclude []string `json:"exclude"`
	}

	k1 := GenerateKey("rec:content", params{Limit: 10, Exclude: []string{"a"}})
	k2 := GenerateKey("rec:content", params{Limit: 10, Exclude: []string{"a"}})
	k3 := GenerateKey("rec:content", params{Limit: 20, Exclude: []string{"a"}})

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, len("rec:content:")+32)

	var fallback string
	assert.NotPanics(t, func() { fallback = GenerateKey("p", make(chan int)) })
	assert.True(t, strings.HasPrefix(fallback, "p:"))
}
