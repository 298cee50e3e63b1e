// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/tomtom215/newsxpress/internal/cache"
)

// KeyNamespace prefixes every cached recommendation result.
const KeyNamespace = "rec"

// Cache key layout:
//
//	rec:<method>:u=<user>:a=<article>:n=<n>:<param-hash>
//	rec:trending:n=<n>:days=<days>
//
// Ids are query-escaped so glob metacharacters in an id cannot widen an
// invalidation pattern. The hash covers every other result-affecting
// parameter.
type keyParams struct {
	Neighbors int      `json:"k,omitempty"`
	Alpha     float64  `json:"alpha,omitempty"`
	Beta      float64  `json:"beta,omitempty"`
	Recent    []string `json:"recent,omitempty"`
	Exclude   []string `json:"exclude,omitempty"`
}

func scopedKey(m Method, userID, articleID string, topN int, p keyParams) string {
	prefix := fmt.Sprintf("%s:%s:u=%s:a=%s:n=%d", KeyNamespace, m,
		url.QueryEscape(userID), url.QueryEscape(articleID), topN)
	return cache.GenerateKey(prefix, p)
}

func sortedIDs(set IDSet) []string {
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ContentKey is the cache key for Similar.
func ContentKey(articleID string, topN int, exclude IDSet) string {
	return scopedKey(MethodContent, "", articleID, topN, keyParams{Exclude: sortedIDs(exclude)})
}

// CollaborativeKey is the cache key for Collaborative.
func CollaborativeKey(userID string, neighbors, topN int, exclude IDSet) string {
	return scopedKey(MethodCollaborative, userID, "", topN, keyParams{
		Neighbors: neighbors,
		Exclude:   sortedIDs(exclude),
	})
}

// HybridKey is the cache key for Hybrid. Only the recent ids that take part
// in fusion are part of the key, in order.
func HybridKey(userID string, recent []string, alpha, beta float64, neighbors, topN int, exclude IDSet) string {
	if len(recent) > maxRecentArticles {
		recent = recent[:maxRecentArticles]
	}
	return scopedKey(MethodHybrid, userID, "", topN, keyParams{
		Neighbors: neighbors,
		Alpha:     alpha,
		Beta:      beta,
		Recent:    recent,
		Exclude:   sortedIDs(exclude),
	})
}

// TrendingKey is the cache key for Trending.
func TrendingKey(topN, windowDays int) string {
	return fmt.Sprintf("%s:%s:n=%d:days=%d", KeyNamespace, MethodTrending, topN, windowDays)
}

// AllPattern matches every recommendation key.
func AllPattern() string {
	return KeyNamespace + ":*"
}

// UserPattern matches every key computed for userID.
func UserPattern(userID string) string {
	return fmt.Sprintf("%s:*:u=%s:*", KeyNamespace, url.QueryEscape(userID))
}

// ArticlePattern matches every key computed around articleID.
func ArticlePattern(articleID string) string {
	return fmt.Sprintf("%s:*:a=%s:*", KeyNamespace, url.QueryEscape(articleID))
}
