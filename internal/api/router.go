// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tomtom215/newsxpress/docs" // registers the OpenAPI document
	"github.com/tomtom215/newsxpress/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	logger        zerolog.Logger
}

// NewRouter creates a Router. A nil mwConfig uses the defaults.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig, logger zerolog.Logger) *Router {
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
		logger:        logger,
	}
}

// Setup returns the HTTP handler with every route registered.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(router.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusNotFound, ErrCodeNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", router.handler.Health)
		r.Get("/health/live", router.handler.Live)
		r.Get("/health/ready", router.handler.Ready)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/recommendations", router.handler.Recommendations)
			r.Post("/recommendations", router.handler.Recommendations)
			r.Get("/recommendations/similar/{articleID}", router.handler.Similar)
			r.Get("/recommendations/personalized/{userID}", router.handler.Personalized)
			r.Post("/recommendations/personalized/{userID}", router.handler.Personalized)
			r.Get("/recommendations/trending", router.handler.Trending)

			r.Post("/track", router.handler.Track)
			r.Get("/cache/stats", router.handler.CacheStats)
			r.Get("/models/info", router.handler.ModelInfo)
		})

		// Mutating operations get a stricter limit.
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitAdmin())

			r.Post("/cache/clear", router.handler.CacheClear)
			r.Post("/models/reload", router.handler.ModelsReload)
		})
	})

	return r
}
