// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/metrics"
)

// ErrNoLoader is returned by Reload on a store built without a Loader.
var ErrNoLoader = errors.New("artifact store has no loader")

// Loader produces the artifact set for the next generation.
type Loader interface {
	Load(ctx context.Context) (*Artifacts, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*Artifacts, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*Artifacts, error) {
	return f(ctx)
}

// ArtifactStore holds the active Snapshot. Readers call Current and keep the
// returned pointer for the whole request; a reload swaps the pointer without
// touching snapshots that are still being read.
type ArtifactStore struct {
	current atomic.Pointer[Snapshot]
	loader  Loader
	logger  zerolog.Logger

	reloadMu sync.Mutex
}

// NewArtifactStore creates an empty store. loader may be nil when snapshots
// are only ever published directly.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewArtifactStore(loader Loader, logger zerolog.Logger) *ArtifactStore {
	return &ArtifactStore{
		loader: loader,
		logger: logger.With().Str("component", "artifact-store").Logger(),
	}
}

// Current returns the active snapshot, or nil before the first publish.
func (s *ArtifactStore) Current() *Snapshot {
	return s.current.Load()
}

// Publish makes snap the active snapshot and returns the one it replaced.
// A nil snap is ignored.
func (s *ArtifactStore) Publish(snap *Snapshot) *Snapshot {
	if snap == nil {
		return s.Current()
	}
	prev := s.current.Swap(snap)

	for _, rejected := range snap.Rejected() {
		s.logger.Warn().Str("generation", snap.Generation()).Str("group", rejected.Group).
			Err(rejected.Err).Msg("Artifact group rejected, affected methods fall back to trending")
	}
	metrics.RecordSnapshotPublished(snap.NumArticles(), snap.NumUsers(), snap.HasContent(), snap.HasCollaborative(), snap.BuiltAt())

	event := s.logger.Info().
		Str("generation", snap.Generation()).
		Int("articles", snap.NumArticles()).
		Int("users", snap.NumUsers()).
		Bool("content", snap.HasContent()).
		Bool("collaborative", snap.HasCollaborative())
	if prev != nil {
		event = event.Str("previous_generation", prev.Generation())
	}
	event.Msg("Snapshot published")

	return prev
}

// Reload loads a fresh artifact set, builds a snapshot and publishes it.
// On any error the active snapshot is left in place. Concurrent reloads are
// serialized.
func (s *ArtifactStore) Reload(ctx context.Context) (*Snapshot, error) {
	if s.loader == nil {
		return nil, ErrNoLoader
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	artifacts, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}

	snap, err := NewSnapshot(artifacts)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	s.Publish(snap)
	return snap, nil
}
