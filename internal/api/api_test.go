// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/newsxpress/internal/cache"
	"github.com/tomtom215/newsxpress/internal/events"
	"github.com/tomtom215/newsxpress/internal/recommend"
)

func testArtifacts() *recommend.Artifacts {
	now := time.Now()
	vocab := []string{"sports", "politics"}
	return &recommend.Artifacts{
		Generation: "gen-1",
		TrainedAt:  now.Add(-time.Hour),
		Articles: []recommend.Article{
			{ID: "a", Title: "Alpha", Topic: "politics", PublishedAt: now.Add(-24 * time.Hour)},
			{ID: "b", Title: "Bravo", Topic: "sports", PublishedAt: now.Add(-48 * time.Hour)},
			{ID: "c", Title: "Charlie", Topic: "sports", PublishedAt: now.Add(-240 * time.Hour)},
		},
		ArticleIndex: []recommend.IndexEntry{{ID: "a", Row: 0}, {ID: "b", Row: 1}, {ID: "c", Row: 2}},
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

type testEnv struct {
	handler http.Handler
	svc     *recommend.Service
	loader  *swapLoader
	logPath string
}

type swapLoader struct {
	artifacts *recommend.Artifacts
	err       error
}

func (l *swapLoader) Load(context.Context) (*recommend.Artifacts, error) {
	return l.artifacts, l.err
}

func newTestEnv(t *testing.T, mw *ChiMiddlewareConfig) *testEnv {
	t.Helper()
	loader := &swapLoader{artifacts: testArtifacts()}
	store := recommend.NewArtifactStore(loader, zerolog.Nop())
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	results := cache.NewResultCache(cache.NewMemoryBackend(0), cache.DefaultConfig(), zerolog.Nop())
	svc := recommend.NewService(store, results, recommend.DefaultConfig(), zerolog.Nop())

	logPath := filepath.Join(t.TempDir(), "activity.jsonl")
	tracker, err := events.NewActivityTracker(logPath, nil, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracker.Close() })

	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	h := NewHandler(svc, tracker, zerolog.Nop())
	return &testEnv{
		handler: NewRouter(h, mw, zerolog.Nop()).Setup(),
		svc:     svc,
		loader:  loader,
		logPath: logPath,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

type recsBody struct {
	Method          string                   `json:"method"`
	Recommendations []map[string]interface{} `json:"recommendations"`
	RequestedMethod string                   `json:"requested_method"`
	Fallback        bool                     `json:"fallback"`
	FallbackReason  string                   `json:"fallback_reason"`
	Generation      string                   `json:"generation"`
	FromCache       bool                     `json:"from_cache"`
}

func (e *testEnv) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func decodeRecs(t *testing.T, env envelope) recsBody {
	t.Helper()
	var body recsBody
	require.NoError(t, json.Unmarshal(env.Data, &body))
	return body
}

func recIDs(body recsBody) []string {
	out := make([]string, len(body.Recommendations))
	for i, r := range body.Recommendations {
		out[i], _ = r["id"].(string)
	}
	return out
}

func TestSimilar(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/similar/a?top_n=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	require.NotNil(t, resp.Meta.Count)
	assert.Equal(t, 2, *resp.Meta.Count)
	assert.NotEmpty(t, resp.Meta.RequestID)

	body := decodeRecs(t, resp)
	assert.Equal(t, "content", body.Method)
	assert.False(t, body.Fallback)
	assert.Equal(t, []string{"c", "b"}, recIDs(body))
	assert.InDelta(t, 0.8, body.Recommendations[0]["similarity_score"], 1e-9)
	assert.Equal(t, "gen-1", body.Generation)
}

func TestSimilar_ExcludeCommaSeparated(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/similar/a?exclude=c,zzz", "")
	assert.Equal(t, []string{"b"}, recIDs(decodeRecs(t, resp)))
}

func TestRecommendations_UnifiedMethods(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name       string
		target     string
		wantMethod string
		wantIDs    []string
		fallback   bool
		scoreField string
	}{
		{
			name:       "collaborative",
			target:     "/api/v1/recommendations?method=collaborative&user_id=u1",
			wantMethod: "collaborative",
			wantIDs:    []string{"c", "b", "a"},
			scoreField: "relevance_score",
		},
		{
			name:       "content via similar alias",
			target:     "/api/v1/recommendations?method=similar&article_id=a",
			wantMethod: "content",
			wantIDs:    []string{"c", "b"},
			scoreField: "similarity_score",
		},
		{
			name:       "trending",
			target:     "/api/v1/recommendations?method=trending&days=7",
			wantMethod: "trending",
			wantIDs:    []string{"a", "b"},
		},
		{
			name:       "unknown method falls back",
			target:     "/api/v1/recommendations?method=magic&days=7",
			wantMethod: "trending",
			wantIDs:    []string{"a", "b"},
			fallback:   true,
		},
		{
			name:       "hybrid without user falls back",
			target:     "/api/v1/recommendations?days=7",
			wantMethod: "trending",
			wantIDs:    []string{"a", "b"},
			fallback:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)
			body := decodeRecs(t, resp)
			assert.Equal(t, tt.wantMethod, body.Method)
			assert.Equal(t, tt.wantIDs, recIDs(body))
			assert.Equal(t, tt.fallback, body.Fallback)
			if tt.fallback {
				assert.NotEmpty(t, body.FallbackReason)
			}
			for _, r := range body.Recommendations {
				for _, field := range []string{"similarity_score", "relevance_score", "hybrid_score"} {
					if field == tt.scoreField {
						assert.Contains(t, r, field)
					} else {
						assert.NotContains(t, r, field)
					}
				}
			}
		})
	}
}

func TestRecommendations_Post(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/recommendations",
		`{"method":"hybrid","user_id":"u1","recent_articles":["a"],"alpha":0.5,"beta":0.5,"top_n":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeRecs(t, resp)
	assert.Equal(t, "hybrid", body.Method)
	assert.False(t, body.Fallback)
	assert.Len(t, body.Recommendations, 2)
	for _, r := range body.Recommendations {
		assert.Contains(t, r, "hybrid_score")
	}
}

func TestRecommendations_EmptyPostBody(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecommendations_BadInput(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode string
	}{
		{name: "non-numeric top_n", method: http.MethodGet, target: "/api/v1/recommendations?top_n=ten", wantCode: ErrCodeBadRequest},
		{name: "non-numeric alpha", method: http.MethodGet, target: "/api/v1/recommendations?alpha=x", wantCode: ErrCodeBadRequest},
		{name: "negative top_n", method: http.MethodGet, target: "/api/v1/recommendations?top_n=-1", wantCode: ErrCodeValidation},
		{name: "negative weight", method: http.MethodPost, target: "/api/v1/recommendations", body: `{"alpha":-0.1}`, wantCode: ErrCodeValidation},
		{name: "id with whitespace", method: http.MethodPost, target: "/api/v1/recommendations", body: `{"user_id":"a b"}`, wantCode: ErrCodeValidation},
		{name: "malformed json", method: http.MethodPost, target: "/api/v1/recommendations", body: `{"user_id":`, wantCode: ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := env.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestPersonalized(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/personalized/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeRecs(t, resp)
	assert.Equal(t, "hybrid", body.Method)
	assert.Equal(t, "hybrid", body.RequestedMethod)
	assert.Equal(t, []string{"c", "b", "a"}, recIDs(body))

	_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/personalized/nobody?days=7", "")
	body = decodeRecs(t, resp)
	assert.True(t, body.Fallback)
	assert.Equal(t, "trending", body.Method)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/recommendations/personalized/u1?method=content", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTrending(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/trending?days=30&top_n=2", "")
	body := decodeRecs(t, resp)
	assert.Equal(t, []string{"a", "b"}, recIDs(body))
	for _, r := range body.Recommendations {
		assert.NotContains(t, r, "hybrid_score")
	}

	_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/trending?days=30", "")
	assert.Equal(t, []string{"a", "b", "c"}, recIDs(decodeRecs(t, resp)))
}

func TestTrack(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/track",
		`{"user_id":"u1","article_id":"a","activity_type":"view","metadata":{"source":"home"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tracked events.Activity
	require.NoError(t, json.Unmarshal(resp.Data, &tracked))
	assert.NotEmpty(t, tracked.EventID)
	assert.False(t, tracked.Timestamp.IsZero())

	f, err := os.Open(env.logPath)
	require.NoError(t, err)
	defer f.Close()
	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var logged events.Activity
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &logged))
	assert.Equal(t, tracked.EventID, logged.EventID)
	assert.Equal(t, "home", logged.Metadata["source"])

	rec, resp = env.do(t, http.MethodPost, "/api/v1/track", `{"user_id":"u1","activity_type":"view"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
}

func TestTrack_NotConfigured(t *testing.T) {
	store := recommend.NewArtifactStore(nil, zerolog.Nop())
	svc := recommend.NewService(store, nil, recommend.DefaultConfig(), zerolog.Nop())
	handler := NewRouter(NewHandler(svc, nil, zerolog.Nop()), nil, zerolog.Nop()).Setup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/track", strings.NewReader(`{"article_id":"a","activity_type":"view"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t, nil)

	_, resp := env.do(t, http.MethodGet, "/api/v1/recommendations/personalized/u1", "")
	assert.False(t, decodeRecs(t, resp).FromCache)
	_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/personalized/u1", "")
	assert.True(t, decodeRecs(t, resp).FromCache)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/cache/clear", `{"user_id":"u1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var results []CacheClearResult
	require.NoError(t, json.Unmarshal(resp.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "user", results[0].Scope)
	assert.GreaterOrEqual(t, results[0].Removed, 1)

	_, resp = env.do(t, http.MethodGet, "/api/v1/recommendations/personalized/u1", "")
	assert.False(t, decodeRecs(t, resp).FromCache)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/cache/clear?user_id=u1&article_id=a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &results))
	assert.Len(t, results, 2)

	rec, resp = env.do(t, http.MethodPost, "/api/v1/cache/clear", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide user_id or article_id", resp.Error.Message)

	rec, _ = env.do(t, http.MethodPost, "/api/v1/cache/clear", `{"all":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheStatsAndModelInfo(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, "memory", stats.Backend)
	assert.True(t, stats.Available)

	rec, resp = env.do(t, http.MethodGet, "/api/v1/models/info", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var info recommend.ModelInfo
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	assert.True(t, info.Loaded)
	assert.Equal(t, "gen-1", info.Generation)
	assert.Equal(t, 3, info.Articles)
	assert.True(t, info.Content)
	assert.True(t, info.Collaborative)
}

func TestModelsReload(t *testing.T) {
	env := newTestEnv(t, nil)

	next := testArtifacts()
	next.Generation = "gen-2"
	env.loader.artifacts = next

	rec, resp := env.do(t, http.MethodPost, "/api/v1/models/reload", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result ReloadResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "gen-2", result.Generation)

	env.loader.err = errors.New("disk on fire")
	rec, resp = env.do(t, http.MethodPost, "/api/v1/models/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrCodeReloadFailed, resp.Error.Code)
	assert.Equal(t, "gen-2", env.svc.ModelInfo().Generation)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthStatus
	require.NoError(t, json.Unmarshal(resp.Data, &health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.ModelLoaded)
	assert.Equal(t, "gen-1", health.Generation)

	rec, _ = env.do(t, http.MethodGet, "/api/v1/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/api/v1/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth_NoModel(t *testing.T) {
	store := recommend.NewArtifactStore(nil, zerolog.Nop())
	svc := recommend.NewService(store, nil, recommend.DefaultConfig(), zerolog.Nop())
	handler := NewRouter(NewHandler(svc, nil, zerolog.Nop()), nil, zerolog.Nop()).Setup()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/trending", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recommendations":[]`)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)

	rec, resp = env.do(t, http.MethodDelete, "/api/v1/recommendations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, ErrCodeMethodNotAllowed, resp.Error.Code)
}

func TestRouter_AdminRateLimit(t *testing.T) {
	mw := DefaultChiMiddlewareConfig()
	mw.AdminRateLimitRequests = 1
	env := newTestEnv(t, mw)

	rec, _ := env.do(t, http.MethodPost, "/api/v1/cache/clear", `{"all":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, resp := env.do(t, http.MethodPost, "/api/v1/cache/clear", `{"all":true}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrCodeTooManyRequests, resp.Error.Code)

	// Read routes keep their own budget.
	rec, _ = env.do(t, http.MethodGet, "/api/v1/recommendations/trending", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-123"`)
}

func TestRouter_SwaggerDocument(t *testing.T) {
	env := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "NewsXpress Recommender API", doc.Info.Title)
	assert.Equal(t, "/api/v1", doc.BasePath)
	assert.Contains(t, doc.Paths, "/recommendations")
	assert.Contains(t, doc.Paths, "/models/reload")
}
