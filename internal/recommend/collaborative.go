// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
)

// CollaborativeScorer recommends articles from the tag profiles of a user's
// nearest neighbors.
//
// For user u with neighbors N(u) (top-k by similarity, u excluded):
//
//	profile = Σ_{v ∈ N(u)} sim(u, v) · features(v), scaled to unit L2 norm
//	score(a) = profile · features(a)
//
// A zero profile is left unscaled, so every article scores 0.0.
type CollaborativeScorer struct {
	store  *ArtifactStore
	logger zerolog.Logger
}

// NewCollaborativeScorer creates a scorer reading from store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCollaborativeScorer(store *ArtifactStore, logger zerolog.Logger) *CollaborativeScorer {
	return &CollaborativeScorer{
		store:  store,
		logger: logger.With().Str("component", "collaborative").Logger(),
	}
}

// Recommend returns up to topN articles for userID using its topK nearest
// neighbors. Unknown users, an empty neighbor set, and a missing
// collaborative model yield an empty result.
func (c *CollaborativeScorer) Recommend(userID string, topK, topN int, exclude IDSet) []Recommendation {
	return c.recommendIn(c.store.Current(), userID, topK, topN, exclude)
}

type neighbor struct {
	id         string
	similarity float64
}

func (c *CollaborativeScorer) recommendIn(snap *Snapshot, userID string, topK, topN int, exclude IDSet) (out []Recommendation) {
	defer recoverComponent(&out, &c.logger, "collaborative")

	if topN <= 0 {
		return nil
	}
	if !snap.HasCollaborative() {
		c.logger.Warn().Str("user_id", userID).Msg("Collaborative model not available")
		return nil
	}

	model := snap.collaborative
	neighbors := model.nearest(userID, topK)
	if len(neighbors) == 0 {
		c.logger.Debug().Str("user_id", userID).Msg("No neighbors for user")
		return nil
	}

	profile := model.profile(neighbors)

	ranked := make([]scored, len(model.articleIDs))
	for i, id := range model.articleIDs {
		ranked[i] = scored{id: id, score: dot(profile, model.articleVec[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out = make([]Recommendation, 0, min(topN, len(ranked)))
	for _, cand := range ranked {
		if exclude.Has(cand.id) {
			continue
		}
		article, ok := snap.Article(cand.id)
		if !ok {
			continue
		}
		out = append(out, Recommendation{Article: article, Score: cand.score, Method: MethodCollaborative})
		if len(out) >= topN {
			break
		}
	}
	return out
}

// nearest returns the topK most similar users to userID, excluding itself,
// ordered by similarity with ties kept in matrix order.
func (m *collaborativeModel) nearest(userID string, topK int) []neighbor {
	row, ok := m.userIndex[userID]
	if !ok || topK <= 0 {
		return nil
	}

	sims := m.userSim[row]
	all := make([]neighbor, 0, len(sims))
	for col, id := range m.userIDs {
		if col == row {
			continue
		}
		all = append(all, neighbor{id: id, similarity: sims[col]})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].similarity > all[j].similarity
	})

	if len(all) > topK {
		all = all[:topK]
	}
	return all
}

// profile aggregates neighbor feature rows weighted by similarity and scales
// the result to unit length. Neighbors without a feature row add nothing.
func (m *collaborativeModel) profile(neighbors []neighbor) []float64 {
	agg := make([]float64, len(m.vocabulary))
	for _, n := range neighbors {
		row, ok := m.features[n.id]
		if !ok {
			continue
		}
		for f, v := range row {
			agg[f] += n.similarity * v
		}
	}

	norm := 0.0
	for _, v := range agg {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return nil
	}
	for f := range agg {
		agg[f] /= norm
	}
	return agg
}

// dot returns a·b. A nil a is the zero vector and yields exactly 0.
func dot(a, b []float64) float64 {
	if a == nil {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
