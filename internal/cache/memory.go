// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package cache

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryBackend is an in-process Backend for single-instance deployments and
// tests. Expired entries are dropped lazily on Get and by a periodic sweep.
type MemoryBackend struct {
	mu          sync.RWMutex
	entries     map[string]memoryEntry
	evictions int64

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryBackend creates a memory backend that sweeps expired entries every
// cleanupInterval. A non-positive interval disables the sweep.
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	m := &MemoryBackend{
		entries: make(map[string]memoryEntry),
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

// Name implements Backend.
func (m *MemoryBackend) Name() string { return "memory" }

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	entry, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		return nil, ErrMiss
	}
	if entry.expired(time.Now()) {
		m.mu.Lock()
		if current, ok := m.entries[key]; ok && current.expired(time.Now()) {
			delete(m.entries, key)
			m.evictions++
		}
		m.mu.Unlock()
		return nil, ErrMiss
	}
	return entry.value, nil
}

// Set implements Backend. The value is copied.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// DeletePattern implements Backend.
func (m *MemoryBackend) DeletePattern(_ context.Context, pattern string) (int, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return 0, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
			removed++
		}
	}
	m.evictions += int64(removed)
	return removed, nil
}

// Ping implements Backend.
func (m *MemoryBackend) Ping(context.Context) error { return nil }

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Evictions returns how many entries expiry and invalidation have removed.
func (m *MemoryBackend) Evictions() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evictions
}

// Close stops the background sweep.
func (m *MemoryBackend) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *MemoryBackend) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes all expired entries.
func (m *MemoryBackend) cleanup() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	m.evictions += int64(removed)
	return removed
}
