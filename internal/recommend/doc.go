// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

// Package recommend implements the article recommendation core.
//
// # Architecture
//
// Trained artifacts arrive from an offline trainer as a Snapshot: an item-item
// content similarity matrix with its article index, article metadata, a
// user-user similarity matrix, and user/article feature tables over a shared
// tag vocabulary. The ArtifactStore publishes one Snapshot at a time through
// an atomic pointer; readers never lock.
//
// Four scorers read the active Snapshot:
//
//   - ContentIndex: articles similar to an article (similarity_score)
//   - CollaborativeScorer: neighbor-weighted tag profile dotted against
//     article features (relevance_score)
//   - HybridFusion: alpha × collaborative + beta × content over up to three
//     recently read articles (hybrid_score)
//   - TrendingFallback: newest articles inside a window, used for cold start
//
// # Serving
//
// Service wraps the scorers with a ResultCache, a singleflight group for
// concurrent misses, and the trending fallback. Nothing in this package
// returns an error to a reader: unknown ids, missing models, and recovered
// scoring failures all produce an empty list or a trending fallback.
//
// # Generations
//
// Refresh reloads the snapshot and, when the reload succeeded, invalidates the
// whole rec:* cache namespace once. Cached entries carry the generation that
// computed them and are ignored under any other generation.
//
//	store := recommend.NewArtifactStore(loader, logger)
//	svc := recommend.NewService(store, resultCache, recommend.DefaultConfig(), logger)
//	if _, err := svc.Refresh(ctx); err != nil {
//	    logger.Warn().Err(err).Msg("Serving without a snapshot")
//	}
//	recs := svc.Hybrid(ctx, recommend.HybridQuery{UserID: "u1", TopN: 10})
package recommend
