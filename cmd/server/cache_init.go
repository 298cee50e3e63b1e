// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/cache"
	"github.com/tomtom215/newsxpress/internal/config"
	"github.com/tomtom215/newsxpress/internal/logging"
	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/recommend/artifacts"
)

// initCache builds the result cache for the configured backend. An
// unreachable Redis is not fatal: the breaker keeps requests flowing
// uncached until it comes back.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (recommend.ResultCache, func(), error) {
	var backend cache.Backend
	switch cfg.Cache.Backend {
	case "none":
		logging.Info().Msg("Result cache disabled (CACHE_BACKEND=none)")
		return nil, func() {}, nil
	case "memory":
		backend = cache.NewMemoryBackend(cfg.Cache.CleanupInterval)
	case "redis":
		redis := cache.NewRedisBackend(cfg.RedisSettings())
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redis.Ping(pingCtx); err != nil {
			logging.Warn().Err(err).Str("addr", cfg.Cache.Redis.Addr).
				Msg("Redis unreachable at startup, serving uncached until it recovers")
		}
		cancel()
		backend = redis
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	results := cache.NewResultCache(backend, cfg.CacheSettings(), logger)
	logging.Info().Str("backend", backend.Name()).Msg("Result cache initialized")
	return results, func() {
		if err := results.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result cache")
		}
	}, nil
}

// initArtifactStore wires the directory loader through the generation
// archive, so a broken artifact set on disk falls back to the last good one.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initArtifactStore(cfg *config.Config, logger zerolog.Logger) (*recommend.ArtifactStore, func(), error) {
	archive, err := artifacts.OpenArchive(cfg.ArchiveSettings(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open artifact archive: %w", err)
	}
	loader := artifacts.NewArchivingLoader(artifacts.NewDirLoader(cfg.Artifacts.Dir, logger), archive, logger)
	store := recommend.NewArtifactStore(loader, logger)

	return store, func() {
		if err := archive.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing artifact archive")
		}
	}, nil
}
