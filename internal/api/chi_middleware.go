// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// ChiMiddlewareConfig configures CORS and rate limiting.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// AdminRateLimitRequests applies to cache and model management routes
	// over the same window.
	AdminRateLimitRequests int
}

// DefaultChiMiddlewareConfig returns the defaults. CORS origins are empty and
// must be configured explicitly.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests:      100,
		RateLimitWindow:        time.Minute,
		AdminRateLimitRequests: 10,
	}
}

// ChiMiddleware builds the CORS and rate limit middleware.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware set. A nil config uses defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}
	return &ChiMiddleware{
		config: config,
		cors: cors.Handler(cors.Options{
			AllowedOrigins: config.CORSAllowedOrigins,
			AllowedMethods: config.CORSAllowedMethods,
			AllowedHeaders: config.CORSAllowedHeaders,
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         config.CORSMaxAge,
		}),
	}
}

// CORS returns the CORS middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits read routes per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimitRequests)
}

// RateLimitAdmin limits cache and model management routes per client IP.
func (m *ChiMiddleware) RateLimitAdmin() func(http.Handler) http.Handler {
	return m.limit(m.config.AdminRateLimitRequests)
}

func (m *ChiMiddleware) limit(requests int) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		m.config.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			NewResponseWriter(w, r).Error(http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
		}),
	)
}
