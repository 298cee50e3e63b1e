// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/newsxpress/internal/cache"
	"github.com/tomtom215/newsxpress/internal/metrics"
)

// ErrNoSnapshot is returned by operations that need a published snapshot.
var ErrNoSnapshot = errors.New("no snapshot loaded")

// ResultCache stores serialized recommendation lists. Implementations never
// fail a read: an unavailable backend reports a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) (int, error)
	Stats(ctx context.Context) cache.Stats
}

// Result is one served recommendation list.
type Result struct {
	Method          Method           `json:"method"`
	Recommendations []Recommendation `json:"recommendations"`
	FromCache       bool             `json:"from_cache"`
	Generation      string           `json:"generation,omitempty"`
}

// SimilarQuery asks for articles like ArticleID.
type SimilarQuery struct {
	ArticleID string
	TopN      int
	Exclude   IDSet
}

// CollaborativeQuery asks for articles liked by users similar to UserID.
// Neighbors of zero uses the configured default.
type CollaborativeQuery struct {
	UserID    string
	Neighbors int
	TopN      int
	Exclude   IDSet
}

// HybridQuery asks for fused recommendations. Nil weights use the configured
// defaults.
type HybridQuery struct {
	UserID  string
	Recent  []string
	Alpha   *float64
	Beta    *float64
	TopN    int
	Exclude IDSet
}

// TrendingQuery asks for the newest articles. Zero values use the defaults.
type TrendingQuery struct {
	TopN       int
	WindowDays int
}

// Request is the unified recommendation request. Method defaults to hybrid.
type Request struct {
	Method     string
	UserID     string
	ArticleID  string
	Recent     []string
	Alpha      *float64
	Beta       *float64
	TopN       int
	WindowDays int
	Exclude    IDSet
}

// Response is the unified recommendation response. Fallback is set when the
// requested method could not produce results and trending was served instead.
type Response struct {
	Result
	RequestedMethod string `json:"requested_method"`
	Fallback        bool   `json:"fallback"`
	FallbackReason  string `json:"fallback_reason,omitempty"`
}

// ModelInfo describes the active snapshot.
type ModelInfo struct {
	Loaded        bool      `json:"loaded"`
	Generation    string    `json:"generation,omitempty"`
	TrainedAt     time.Time `json:"trained_at,omitempty"`
	LoadedAt      time.Time `json:"loaded_at,omitempty"`
	Articles      int       `json:"articles"`
	Users         int       `json:"users"`
	Content       bool      `json:"content_available"`
	Collaborative bool      `json:"collaborative_available"`
	Rejected      []string  `json:"rejected,omitempty"`
}

// Service serves recommendations from the active snapshot through a result
// cache. Each request reads exactly one snapshot. Concurrent misses for the
// same key are computed once and the shared slice must be treated as
// read-only.
type Service struct {
	store         *ArtifactStore
	cache         ResultCache
	cfg           Config
	content       *ContentIndex
	collaborative *CollaborativeScorer
	hybrid        *HybridFusion
	trending      *TrendingFallback
	flight        singleflight.Group
	logger        zerolog.Logger
}

// NewService wires the scorers around store. A nil resultCache serves every
// request uncached.
//
//nolint:gocritic // Config and zerolog.Logger are passed by value
func NewService(store *ArtifactStore, resultCache ResultCache, cfg Config, logger zerolog.Logger) *Service {
	if resultCache == nil {
		resultCache = noCache{}
	}
	content := NewContentIndex(store, logger)
	collaborative := NewCollaborativeScorer(store, logger)
	return &Service{
		store:         store,
		cache:         resultCache,
		cfg:           cfg,
		content:       content,
		collaborative: collaborative,
		hybrid:        NewHybridFusion(store, content, collaborative, cfg.Neighbors, logger),
		trending:      NewTrendingFallback(store, logger),
		logger:        logger.With().Str("component", "recommend-service").Logger(),
	}
}

// Config returns the serving configuration.
func (s *Service) Config() Config { return s.cfg }

// Store returns the underlying artifact store.
func (s *Service) Store() *ArtifactStore { return s.store }

// Similar serves content-based recommendations.
func (s *Service) Similar(ctx context.Context, q SimilarQuery) Result {
	topN := s.cfg.clampTopN(q.TopN)
	key := ContentKey(q.ArticleID, topN, q.Exclude)
	return s.serve(ctx, MethodContent, key, func(snap *Snapshot) []Recommendation {
		return s.content.similarIn(snap, q.ArticleID, topN, q.Exclude)
	})
}

// Collaborative serves neighbor-based recommendations.
func (s *Service) Collaborative(ctx context.Context, q CollaborativeQuery) Result {
	topN := s.cfg.clampTopN(q.TopN)
	k := q.Neighbors
	if k <= 0 {
		k = s.cfg.Neighbors
	}
	key := CollaborativeKey(q.UserID, k, topN, q.Exclude)
	return s.serve(ctx, MethodCollaborative, key, func(snap *Snapshot) []Recommendation {
		return s.collaborative.recommendIn(snap, q.UserID, k, topN, q.Exclude)
	})
}

// Hybrid serves fused recommendations.
func (s *Service) Hybrid(ctx context.Context, q HybridQuery) Result {
	topN := s.cfg.clampTopN(q.TopN)
	alpha, beta := s.cfg.Alpha, s.cfg.Beta
	if q.Alpha != nil {
		alpha = *q.Alpha
	}
	if q.Beta != nil {
		beta = *q.Beta
	}
	key := HybridKey(q.UserID, q.Recent, alpha, beta, s.cfg.Neighbors, topN, q.Exclude)
	return s.serve(ctx, MethodHybrid, key, func(snap *Snapshot) []Recommendation {
		return s.hybrid.recommendIn(snap, q.UserID, q.Recent, alpha, beta, topN, q.Exclude)
	})
}

// Trending serves the newest articles.
func (s *Service) Trending(ctx context.Context, q TrendingQuery) Result {
	topN := s.cfg.clampTopN(q.TopN)
	days := q.WindowDays
	if days == 0 {
		days = s.cfg.TrendingWindowDays
	}
	return s.serve(ctx, MethodTrending, TrendingKey(topN, days), func(snap *Snapshot) []Recommendation {
		return s.trending.trendingIn(snap, topN, days)
	})
}

// Recommend dispatches a unified request. Missing context for the requested
// method, an unknown method, or an empty model result all serve trending with
// Fallback set.
func (s *Service) Recommend(ctx context.Context, req Request) Response {
	start := time.Now()

	method, err := ParseMethod(req.Method)
	if err != nil {
		s.logger.Debug().Str("method", req.Method).Msg("Unknown method, serving trending")
		return s.fallback(ctx, req, "unknown method", start)
	}

	var res Result
	switch method {
	case MethodContent:
		if req.ArticleID == "" {
			return s.fallback(ctx, req, "article_id required", start)
		}
		res = s.Similar(ctx, SimilarQuery{ArticleID: req.ArticleID, TopN: req.TopN, Exclude: req.Exclude})
	case MethodCollaborative:
		if req.UserID == "" {
			return s.fallback(ctx, req, "user_id required", start)
		}
		res = s.Collaborative(ctx, CollaborativeQuery{UserID: req.UserID, TopN: req.TopN, Exclude: req.Exclude})
	case MethodHybrid:
		if req.UserID == "" {
			return s.fallback(ctx, req, "user_id required", start)
		}
		res = s.Hybrid(ctx, HybridQuery{
			UserID:  req.UserID,
			Recent:  req.Recent,
			Alpha:   req.Alpha,
			Beta:    req.Beta,
			TopN:    req.TopN,
			Exclude: req.Exclude,
		})
	case MethodTrending:
		res = s.Trending(ctx, TrendingQuery{TopN: req.TopN, WindowDays: req.WindowDays})
		metrics.RecordRecommendDuration(string(method), time.Since(start))
		return Response{Result: res, RequestedMethod: req.Method}
	}

	if len(res.Recommendations) == 0 {
		return s.fallback(ctx, req, "no results", start)
	}
	metrics.RecordRecommendDuration(string(method), time.Since(start))
	return Response{Result: res, RequestedMethod: req.Method}
}

func (s *Service) fallback(ctx context.Context, req Request, reason string, start time.Time) Response {
	metrics.RecordRecommendation(string(MethodTrending), "fallback")
	res := s.Trending(ctx, TrendingQuery{TopN: req.TopN, WindowDays: req.WindowDays})
	metrics.RecordRecommendDuration(string(MethodTrending), time.Since(start))
	return Response{
		Result:          res,
		RequestedMethod: req.Method,
		Fallback:        true,
		FallbackReason:  reason,
	}
}

// cachedResult is the value stored under a cache key. Entries are tied to
// the generation that computed them; a lookup under any other generation is a
// miss, so an entry written after a reload's invalidation is never served.
type cachedResult struct {
	Generation      string           `json:"generation"`
	Recommendations []Recommendation `json:"recommendations"`
}

// serve returns the cached list for key or computes it against one snapshot.
// A result computed while a reload replaced the snapshot is returned but not
// cached.
func (s *Service) serve(ctx context.Context, method Method, key string, compute func(*Snapshot) []Recommendation) Result {
	if entry, ok := s.lookup(ctx, key); ok {
		metrics.RecordCacheLookup(string(method), true)
		metrics.RecordRecommendation(string(method), "cached")
		return Result{Method: method, Recommendations: entry.Recommendations, FromCache: true, Generation: entry.Generation}
	}
	metrics.RecordCacheLookup(string(method), false)

	v, _, _ := s.flight.Do(key, func() (interface{}, error) {
		snap := s.store.Current()
		recs := compute(snap)
		if recs == nil {
			recs = []Recommendation{}
		}
		s.remember(ctx, method, key, snap, recs)
		return computed{recs: recs, generation: generationOf(snap)}, nil
	})
	out := v.(computed)

	outcome := "served"
	if len(out.recs) == 0 {
		outcome = "empty"
	}
	metrics.RecordRecommendation(string(method), outcome)
	return Result{Method: method, Recommendations: out.recs, Generation: out.generation}
}

// lookup returns the cached entry for key when it belongs to the active
// generation.
func (s *Service) lookup(ctx context.Context, key string) (cachedResult, bool) {
	raw, ok := s.cache.Get(ctx, key)
	if !ok {
		return cachedResult{}, false
	}
	var entry cachedResult
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return cachedResult{}, false
	}
	if current := s.generation(); entry.Generation != current {
		s.logger.Debug().Str("key", key).Str("entry_generation", entry.Generation).
			Str("generation", current).Msg("Ignoring cache entry from another generation")
		return cachedResult{}, false
	}
	return entry, true
}

type computed struct {
	recs       []Recommendation
	generation string
}

// remember writes recs to the cache, stamped with the generation of snap,
// unless the result is empty or the snapshot changed while it was computed.
func (s *Service) remember(ctx context.Context, method Method, key string, snap *Snapshot, recs []Recommendation) {
	if len(recs) == 0 || snap == nil {
		return
	}
	if s.store.Current() != snap {
		s.logger.Debug().Str("key", key).Msg("Snapshot replaced during compute, not caching")
		return
	}
	raw, err := json.Marshal(cachedResult{Generation: snap.Generation(), Recommendations: recs})
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to encode recommendations")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.ttlFor(method)); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Cache write skipped")
	}
}

func (s *Service) generation() string {
	return generationOf(s.store.Current())
}

func generationOf(snap *Snapshot) string {
	if snap == nil {
		return ""
	}
	return snap.Generation()
}

// InvalidateAll removes every cached recommendation.
func (s *Service) InvalidateAll(ctx context.Context) (int, error) {
	return s.invalidate(ctx, "all", AllPattern())
}

// ClearUser removes every cached recommendation computed for userID.
func (s *Service) ClearUser(ctx context.Context, userID string) (int, error) {
	return s.invalidate(ctx, "user", UserPattern(userID))
}

// ClearArticle removes every cached recommendation computed around articleID.
func (s *Service) ClearArticle(ctx context.Context, articleID string) (int, error) {
	return s.invalidate(ctx, "article", ArticlePattern(articleID))
}

func (s *Service) invalidate(ctx context.Context, scope, pattern string) (int, error) {
	n, err := s.cache.Invalidate(ctx, pattern)
	if err != nil {
		s.logger.Warn().Err(err).Str("pattern", pattern).Msg("Cache invalidation failed")
		return 0, fmt.Errorf("invalidate %s: %w", pattern, err)
	}
	metrics.RecordCacheInvalidation(scope, n)
	s.logger.Info().Str("pattern", pattern).Int("removed", n).Msg("Cache invalidated")
	return n, nil
}

// ReloadSnapshot loads and publishes the next snapshot and returns its
// generation. The cache is left untouched.
func (s *Service) ReloadSnapshot(ctx context.Context) (string, error) {
	snap, err := s.store.Reload(ctx)
	if err != nil {
		return "", err
	}
	return snap.Generation(), nil
}

// Refresh completes a retraining cycle: it reloads the snapshot and, only if
// that succeeded, invalidates the whole namespace exactly once. A failed
// invalidation is logged and does not fail the refresh; stale entries then
// expire by TTL.
func (s *Service) Refresh(ctx context.Context) (string, error) {
	generation, err := s.ReloadSnapshot(ctx)
	if err != nil {
		return "", err
	}
	if _, err := s.InvalidateAll(ctx); err != nil {
		s.logger.Warn().Err(err).Str("generation", generation).
			Msg("Snapshot reloaded but cache not invalidated, entries expire by TTL")
	}
	return generation, nil
}

// Stats reports result cache counters.
func (s *Service) Stats(ctx context.Context) cache.Stats {
	return s.cache.Stats(ctx)
}

// ModelInfo describes the active snapshot.
func (s *Service) ModelInfo() ModelInfo {
	snap := s.store.Current()
	if snap == nil {
		return ModelInfo{}
	}
	info := ModelInfo{
		Loaded:        true,
		Generation:    snap.Generation(),
		TrainedAt:     snap.TrainedAt(),
		LoadedAt:      snap.BuiltAt(),
		Articles:      snap.NumArticles(),
		Users:         snap.NumUsers(),
		Content:       snap.HasContent(),
		Collaborative: snap.HasCollaborative(),
	}
	for _, r := range snap.Rejected() {
		info.Rejected = append(info.Rejected, r.Error())
	}
	return info
}

// noCache is the pass-through used when no cache is configured.
type noCache struct{}

func (noCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (noCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (noCache) Invalidate(context.Context, string) (int, error) { return 0, nil }

func (noCache) Stats(context.Context) cache.Stats { return cache.Stats{Backend: "none"} }
