// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// TrendingFallback ranks the newest articles inside a publication window.
// It needs only article metadata, so it keeps working when both models are
// unavailable.
type TrendingFallback struct {
	store  *ArtifactStore
	now    func() time.Time
	logger zerolog.Logger
}

// NewTrendingFallback creates a trending ranker reading from store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrendingFallback(store *ArtifactStore, logger zerolog.Logger) *TrendingFallback {
	return &TrendingFallback{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "trending").Logger(),
	}
}

// Trending returns up to topN articles published within the last windowDays
// days, newest first. Articles without a publication time are skipped. A
// non-positive window or missing metadata yields an empty result.
func (t *TrendingFallback) Trending(topN, windowDays int) []Recommendation {
	return t.trendingIn(t.store.Current(), topN, windowDays)
}

func (t *TrendingFallback) trendingIn(snap *Snapshot, topN, windowDays int) (out []Recommendation) {
	defer recoverComponent(&out, &t.logger, "trending")

	if topN <= 0 {
		return nil
	}
	if windowDays <= 0 {
		t.logger.Warn().Int("window_days", windowDays).Msg("Invalid trending window")
		return nil
	}
	if snap == nil {
		t.logger.Warn().Msg("No snapshot loaded, trending unavailable")
		return nil
	}

	cutoff := t.now().AddDate(0, 0, -windowDays)
	recent := make([]Article, 0, len(snap.articles))
	for _, a := range snap.articles {
		if a.PublishedAt.IsZero() || a.PublishedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, a)
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].PublishedAt.After(recent[j].PublishedAt)
	})

	if len(recent) > topN {
		recent = recent[:topN]
	}
	out = make([]Recommendation, len(recent))
	for i, a := range recent {
		out[i] = Recommendation{Article: a, Method: MethodTrending}
	}
	return out
}
