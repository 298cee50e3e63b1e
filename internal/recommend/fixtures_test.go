// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var fixtureNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fixtureArtifacts is a small complete artifact set.
//
// Content: a~c 0.8, a~b 0.5, b~c 0.2.
// Users: u1~u2 0.5, u3 shares nothing with anyone.
// Vocabulary [sports politics]; u2 likes sports, u1 and u3 politics.
// Article features: a politics, b 0.2 sports, c 0.7 sports.
func fixtureArtifacts() *Artifacts {
	vocab := []string{"sports", "politics"}
	return &Artifacts{
		Generation: "gen-1",
		TrainedAt:  fixtureNow.Add(-time.Hour),
		Articles: []Article{
			{ID: "a", Title: "Alpha", Topic: "politics", PublishedAt: fixtureNow.Add(-24 * time.Hour)},
			{ID: "b", Title: "Bravo", Topic: "sports", PublishedAt: fixtureNow.Add(-48 * time.Hour)},
			{ID: "c", Title: "Charlie", Topic: "sports", PublishedAt: fixtureNow.Add(-240 * time.Hour)},
		},
		ArticleIndex: []IndexEntry{{ID: "a", Row: 0}, {ID: "b", Row: 1}, {ID: "c", Row: 2}},
		ContentSimilarity: [][]float64{
			{1, 0.5, 0.8},
			{0.5, 1, 0.2},
			{0.8, 0.2, 1},
		},
		UserIDs: []string{"u1", "u2", "u3"},
		UserSimilarity: [][]float64{
			{1, 0.5, 0},
			{0.5, 1, 0},
			{0, 0, 1},
		},
		UserVocabulary: vocab,
		UserFeatures: map[string][]float64{
			"u1": {0, 1},
			"u2": {1, 0},
			"u3": {0, 1},
		},
		ArticleVocabulary: vocab,
		ArticleFeatureIDs: []string{"a", "b", "c"},
		ArticleFeatures:   [][]float64{{0, 1}, {0.2, 0}, {0.7, 0}},
	}
}

func mustSnapshot(t *testing.T, a *Artifacts) *Snapshot {
	t.Helper()
	snap, err := NewSnapshot(a)
	require.NoError(t, err)
	return snap
}

func newTestStore(t *testing.T, a *Artifacts) *ArtifactStore {
	t.Helper()
	store := NewArtifactStore(nil, zerolog.Nop())
	if a != nil {
		store.Publish(mustSnapshot(t, a))
	}
	return store
}

func ids(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
