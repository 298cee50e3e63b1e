// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"sort"

	"github.com/rs/zerolog"
)

// ContentIndex answers "more like this" queries from the precomputed
// item-item similarity matrix.
type ContentIndex struct {
	store  *ArtifactStore
	logger zerolog.Logger
}

// NewContentIndex creates a content index reading from store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewContentIndex(store *ArtifactStore, logger zerolog.Logger) *ContentIndex {
	return &ContentIndex{
		store:  store,
		logger: logger.With().Str("component", "content").Logger(),
	}
}

// Similar returns up to topN articles most similar to articleID, best first.
// The article itself and ids in exclude are never returned. Unknown ids and a
// missing content model yield an empty result.
func (c *ContentIndex) Similar(articleID string, topN int, exclude IDSet) []Recommendation {
	return c.similarIn(c.store.Current(), articleID, topN, exclude)
}

func (c *ContentIndex) similarIn(snap *Snapshot, articleID string, topN int, exclude IDSet) (out []Recommendation) {
	defer recoverComponent(&out, &c.logger, "content")

	if topN <= 0 {
		return nil
	}
	if !snap.HasContent() {
		c.logger.Warn().Str("article_id", articleID).Msg("Content model not available")
		return nil
	}

	model := snap.content
	row, ok := model.index[articleID]
	if !ok {
		c.logger.Debug().Str("article_id", articleID).Msg("Article not found in content index")
		return nil
	}

	sims := model.matrix[row]
	order := make([]int, len(sims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sims[order[i]] > sims[order[j]]
	})

	out = make([]Recommendation, 0, min(topN, len(order)))
	for _, col := range order {
		if col == row {
			continue
		}
		id := model.colIDs[col]
		if id == "" || exclude.Has(id) {
			continue
		}
		article, ok := snap.Article(id)
		if !ok {
			continue
		}
		out = append(out, Recommendation{Article: article, Score: sims[col], Method: MethodContent})
		if len(out) >= topN {
			break
		}
	}
	return out
}
