// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/newsxpress/internal/logging"
	"github.com/tomtom215/newsxpress/internal/metrics"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
		assert.NotEmpty(t, logging.CorrelationIDFromContext(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-42", seen)
	assert.Equal(t, "upstream-42", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 200))
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, strings.Repeat("x", 200), seen)
}

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/items/{id}", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	assert.Equal(t, before+3, testutil.ToFloat64(counter))

	unmatched := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before = testutil.ToFloat64(unmatched)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(unmatched))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(logging.NewTestLogger(&buf)))
	r.Get("/fail", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	out := buf.String()
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, `"route":"/fail"`)
	assert.Contains(t, out, `"request_id"`)
	assert.Contains(t, out, `"level":"error"`)
}
