// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoArticleStore(t *testing.T) *ArtifactStore {
	t.Helper()
	return newTestStore(t, &Artifacts{
		Generation:        "pair",
		Articles:          []Article{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}},
		ArticleIndex:      []IndexEntry{{ID: "a", Row: 0}, {ID: "b", Row: 1}},
		ContentSimilarity: [][]float64{{1, 0.8}, {0.8, 1}},
	})
}

func TestContentIndex_SimilarPair(t *testing.T) {
	index := NewContentIndex(twoArticleStore(t), zerolog.Nop())

	recs := index.Similar("a", 1, nil)
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].ID)
	assert.Equal(t, "B", recs[0].Title)
	assert.InDelta(t, 0.8, recs[0].Score, 1e-12)
	assert.Equal(t, MethodContent, recs[0].Method)

	assert.Empty(t, index.Similar("a", 1, NewIDSet("b")))
}

func TestContentIndex_Similar(t *testing.T) {
	index := NewContentIndex(newTestStore(t, fixtureArtifacts()), zerolog.Nop())

	tests := []struct {
		name      string
		articleID string
		topN      int
		exclude   IDSet
		want      []string
	}{
		{name: "ranked", articleID: "a", topN: 5, want: []string{"c", "b"}},
		{name: "truncated", articleID: "a", topN: 1, want: []string{"c"}},
		{name: "excluded", articleID: "a", topN: 5, exclude: NewIDSet("c"), want: []string{"b"}},
		{name: "unknown article", articleID: "zzz", topN: 5, want: []string{}},
		{name: "zero size", articleID: "a", topN: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := index.Similar(tt.articleID, tt.topN, tt.exclude)
			assert.Equal(t, tt.want, ids(recs))
			assert.LessOrEqual(t, len(recs), max(tt.topN, 0))
			for _, r := range recs {
				assert.NotEqual(t, tt.articleID, r.ID)
				assert.False(t, tt.exclude.Has(r.ID))
			}
		})
	}
}

func TestContentIndex_NoSnapshot(t *testing.T) {
	index := NewContentIndex(NewArtifactStore(nil, zerolog.Nop()), zerolog.Nop())
	assert.Empty(t, index.Similar("a", 3, nil))
}

func TestContentIndex_SkipsIDsWithoutMetadata(t *testing.T) {
	a := fixtureArtifacts()
	a.Articles = a.Articles[:2] // c has no metadata
	index := NewContentIndex(newTestStore(t, a), zerolog.Nop())

	assert.Equal(t, []string{"b"}, ids(index.Similar("a", 5, nil)))
}

func TestContentIndex_RecoversFromPanic(t *testing.T) {
	snap := mustSnapshot(t, fixtureArtifacts())
	// Corrupt the model past validation: a column with no id slot.
	snap.content = &contentModel{
		index:  map[string]int{"a": 0},
		colIDs: []string{"a"},
		matrix: [][]float64{{1, 0.9}},
	}
	store := NewArtifactStore(nil, zerolog.Nop())
	store.Publish(snap)
	index := NewContentIndex(store, zerolog.Nop())

	var recs []Recommendation
	assert.NotPanics(t, func() { recs = index.Similar("a", 3, nil) })
	assert.Empty(t, recs)
}

func TestCollaborativeScorer_Recommend(t *testing.T) {
	scorer := NewCollaborativeScorer(newTestStore(t, fixtureArtifacts()), zerolog.Nop())

	recs := scorer.Recommend("u1", 1, 3, nil)
	require.Equal(t, []string{"c", "b", "a"}, ids(recs))
	assert.InDelta(t, 0.7, recs[0].Score, 1e-12)
	assert.InDelta(t, 0.2, recs[1].Score, 1e-12)
	assert.InDelta(t, 0.0, recs[2].Score, 1e-12)
	for _, r := range recs {
		assert.Equal(t, MethodCollaborative, r.Method)
	}

	assert.Equal(t, []string{"b", "a"}, ids(scorer.Recommend("u1", 1, 3, NewIDSet("c"))))
	assert.Empty(t, scorer.Recommend("nobody", 1, 3, nil))
	assert.Empty(t, scorer.Recommend("u1", 0, 3, nil))
}

func TestCollaborativeScorer_ZeroSimilarityScoresExactlyZero(t *testing.T) {
	scorer := NewCollaborativeScorer(newTestStore(t, fixtureArtifacts()), zerolog.Nop())

	recs := scorer.Recommend("u3", 1, 3, nil)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(recs), "ties keep feature table order")
	for _, r := range recs {
		assert.Equal(t, 0.0, r.Score)
		assert.False(t, math.Signbit(r.Score))
	}
}

func TestCollaborativeScorer_OrthogonalUsers(t *testing.T) {
	vocab := []string{"x", "y"}
	scorer := NewCollaborativeScorer(newTestStore(t, &Artifacts{
		Articles:          []Article{{ID: "p"}, {ID: "q"}},
		UserIDs:           []string{"user1", "user2"},
		UserSimilarity:    [][]float64{{1, 0}, {0, 1}},
		UserVocabulary:    vocab,
		UserFeatures:      map[string][]float64{"user1": {1, 0}, "user2": {0, 1}},
		ArticleVocabulary: vocab,
		ArticleFeatureIDs: []string{"p", "q"},
		ArticleFeatures:   [][]float64{{1, 0}, {0, 1}},
	}), zerolog.Nop())

	recs := scorer.Recommend("user1", 1, 5, nil)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, 0.0, r.Score)
	}
}

func TestHybridFusion_FusedScore(t *testing.T) {
	store := newTestStore(t, fixtureArtifacts())
	content := NewContentIndex(store, zerolog.Nop())
	collab := NewCollaborativeScorer(store, zerolog.Nop())
	hybrid := NewHybridFusion(store, content, collab, 1, zerolog.Nop())

	recs := hybrid.Recommend("u1", []string{"a"}, 0.6, 0.4, 3, nil)
	require.Equal(t, []string{"c", "b", "a"}, ids(recs))
	assert.InDelta(t, 0.74, recs[0].Score, 1e-9) // 0.6*0.7 + 0.4*0.8
	assert.InDelta(t, 0.32, recs[1].Score, 1e-9) // 0.6*0.2 + 0.4*0.5
	assert.InDelta(t, 0.0, recs[2].Score, 1e-9)
	for _, r := range recs {
		assert.Equal(t, MethodHybrid, r.Method)
	}
}

func TestHybridFusion_NoRecentEqualsCollaborative(t *testing.T) {
	store := newTestStore(t, fixtureArtifacts())
	content := NewContentIndex(store, zerolog.Nop())
	collab := NewCollaborativeScorer(store, zerolog.Nop())
	hybrid := NewHybridFusion(store, content, collab, 1, zerolog.Nop())

	want := collab.Recommend("u1", 1, 3, nil)
	for _, recent := range [][]string{nil, {}} {
		got := hybrid.Recommend("u1", recent, 0.6, 0.4, 3, nil)
		require.Equal(t, ids(want), ids(got))
		for i := range got {
			assert.InDelta(t, 0.6*want[i].Score, got[i].Score, 1e-12)
		}
	}
}

func TestHybridFusion_WithoutContentModel(t *testing.T) {
	a := fixtureArtifacts()
	a.ArticleIndex, a.ContentSimilarity = nil, nil
	store := newTestStore(t, a)
	content := NewContentIndex(store, zerolog.Nop())
	collab := NewCollaborativeScorer(store, zerolog.Nop())
	hybrid := NewHybridFusion(store, content, collab, 1, zerolog.Nop())

	got := hybrid.Recommend("u1", []string{"a"}, 0.6, 0.4, 3, nil)
	assert.Equal(t, []string{"c", "b", "a"}, ids(got))
	assert.InDelta(t, 0.42, got[0].Score, 1e-9)
}

func TestHybridFusion_RepeatedRecentIsAdditive(t *testing.T) {
	store := newTestStore(t, fixtureArtifacts())
	content := NewContentIndex(store, zerolog.Nop())
	collab := NewCollaborativeScorer(store, zerolog.Nop())
	hybrid := NewHybridFusion(store, content, collab, 1, zerolog.Nop())

	recs := hybrid.Recommend("u1", []string{"a", "a"}, 0.6, 0.4, 1, nil)
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.42+2*0.32, recs[0].Score, 1e-9)
}

func TestHybridFusion_OnlyFirstThreeRecent(t *testing.T) {
	store := newTestStore(t, fixtureArtifacts())
	content := NewContentIndex(store, zerolog.Nop())
	collab := NewCollaborativeScorer(store, zerolog.Nop())
	hybrid := NewHybridFusion(store, content, collab, 1, zerolog.Nop())

	three := hybrid.Recommend("u1", []string{"b", "b", "b"}, 0.6, 0.4, 3, nil)
	four := hybrid.Recommend("u1", []string{"b", "b", "b", "a"}, 0.6, 0.4, 3, nil)
	assert.Equal(t, three, four)
}

func TestHybridFusion_ExcludeAndContentOnlyEntries(t *testing.T) {
	store := newTestStore(t, fixtureArtifacts())
	content := NewContentIndex(store, zerolog.Nop())
	collab := NewCollaborativeScorer(store, zerolog.Nop())
	hybrid := NewHybridFusion(store, content, collab, 1, zerolog.Nop())

	// An unknown user adds no collaborative terms; content terms still create entries.
	recs := hybrid.Recommend("nobody", []string{"a"}, 0.6, 0.4, 3, NewIDSet("b"))
	require.Equal(t, []string{"c"}, ids(recs))
	assert.InDelta(t, 0.32, recs[0].Score, 1e-9)
}

func TestTrendingFallback(t *testing.T) {
	a := fixtureArtifacts()
	a.Articles = append(a.Articles,
		Article{ID: "d", Title: "Undated"},
		Article{ID: "e", Title: "Echo", PublishedAt: fixtureNow.Add(-24 * time.Hour)},
	)
	trending := NewTrendingFallback(newTestStore(t, a), zerolog.Nop())
	trending.now = func() time.Time { return fixtureNow }

	tests := []struct {
		name string
		topN int
		days int
		want []string
	}{
		{name: "week", topN: 10, days: 7, want: []string{"a", "e", "b"}},
		{name: "truncated", topN: 1, days: 7, want: []string{"a"}},
		{name: "long window", topN: 10, days: 30, want: []string{"a", "e", "b", "c"}},
		{name: "zero window", topN: 10, days: 0, want: []string{}},
		{name: "negative window", topN: 10, days: -3, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := trending.Trending(tt.topN, tt.days)
			assert.Equal(t, tt.want, ids(recs))
			for _, r := range recs {
				assert.Equal(t, MethodTrending, r.Method)
				assert.Zero(t, r.Score)
			}
		})
	}
}

func TestTrendingFallback_NoSnapshot(t *testing.T) {
	trending := NewTrendingFallback(NewArtifactStore(nil, zerolog.Nop()), zerolog.Nop())
	assert.Empty(t, trending.Trending(5, 7))
}
