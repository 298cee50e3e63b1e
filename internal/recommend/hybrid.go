// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"sort"

	"github.com/rs/zerolog"
)

// maxRecentArticles bounds how many recently read articles seed the content term.
const maxRecentArticles = 3

// HybridFusion blends collaborative and content scores:
//
//	fused(a) = alpha · relevance(a) + beta · Σ_{r ∈ recent[:3]} similarity(r, a)
//
// The collaborative pool is fetched at twice topN. A recent id listed twice
// contributes its content scores twice.
type HybridFusion struct {
	store         *ArtifactStore
	content       *ContentIndex
	collaborative *CollaborativeScorer
	neighbors     int
	logger        zerolog.Logger
}

// NewHybridFusion creates a fusion over the given scorers. neighbors is the
// top-k neighbor count used for the collaborative pool.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHybridFusion(store *ArtifactStore, content *ContentIndex, collaborative *CollaborativeScorer, neighbors int, logger zerolog.Logger) *HybridFusion {
	return &HybridFusion{
		store:         store,
		content:       content,
		collaborative: collaborative,
		neighbors:     neighbors,
		logger:        logger.With().Str("component", "hybrid").Logger(),
	}
}

// Recommend returns up to topN articles ranked by fused score. alpha weights
// the collaborative score and beta the content score; they need not sum to 1.
// Without recent ids, or without a content model, the result is the
// collaborative ranking scaled by alpha.
func (h *HybridFusion) Recommend(userID string, recent []string, alpha, beta float64, topN int, exclude IDSet) []Recommendation {
	return h.recommendIn(h.store.Current(), userID, recent, alpha, beta, topN, exclude)
}

func (h *HybridFusion) recommendIn(snap *Snapshot, userID string, recent []string, alpha, beta float64, topN int, exclude IDSet) (out []Recommendation) {
	defer recoverComponent(&out, &h.logger, "hybrid")

	if topN <= 0 {
		return nil
	}

	fused := make(map[string]int)
	var pool []Recommendation
	add := func(rec Recommendation, weighted float64) {
		if i, ok := fused[rec.ID]; ok {
			pool[i].Score += weighted
			return
		}
		fused[rec.ID] = len(pool)
		rec.Score = weighted
		rec.Method = MethodHybrid
		pool = append(pool, rec)
	}

	for _, rec := range h.collaborative.recommendIn(snap, userID, h.neighbors, 2*topN, exclude) {
		add(rec, alpha*rec.Score)
	}

	if len(recent) > 0 && snap.HasContent() {
		if len(recent) > maxRecentArticles {
			recent = recent[:maxRecentArticles]
		}
		for _, articleID := range recent {
			for _, rec := range h.content.similarIn(snap, articleID, topN, exclude) {
				add(rec, beta*rec.Score)
			}
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})
	if len(pool) > topN {
		pool = pool[:topN]
	}
	return pool
}
