// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

// Package middleware provides the HTTP middleware shared by the API router:
// request id propagation into the logging context, Prometheus request
// instrumentation keyed by route pattern, and a zerolog access log.
package middleware
