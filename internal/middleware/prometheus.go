// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/logging"
	"github.com/tomtom215/newsxpress/internal/metrics"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// PrometheusMetrics records request count and latency per method, route
// pattern and status. The pattern (not the raw path) is used so ids in the
// URL do not create new series.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		metrics.RecordAPIRequest(r.Method, routePattern(r), status(ww), time.Since(start))
	})
}

// AccessLog writes one line per request through logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "http").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			code := status(ww)
			var event *zerolog.Event
			switch {
			case code >= http.StatusInternalServerError:
				event = logger.Error()
			case code >= http.StatusBadRequest:
				event = logger.Warn()
			default:
				event = logger.Debug()
			}
			event.
				Str("request_id", logging.RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Int("status", code).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

func status(ww chimiddleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}
