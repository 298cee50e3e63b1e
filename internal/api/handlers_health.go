// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/newsxpress/internal/cache"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string      `json:"status"`
	ModelLoaded bool        `json:"model_loaded"`
	Generation  string      `json:"generation,omitempty"`
	Cache       cache.Stats `json:"cache"`
	Uptime      string      `json:"uptime"`
}

// Health serves GET /health. Status is "degraded" without a model or when
// the result cache is unreachable; requests are still served either way.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	info := h.svc.ModelInfo()
	stats := h.svc.Stats(r.Context())

	status := "healthy"
	if !info.Loaded || (stats.Backend != "none" && !stats.Available) {
		status = "degraded"
	}
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:      status,
		ModelLoaded: info.Loaded,
		Generation:  info.Generation,
		Cache:       stats,
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Live serves GET /api/v1/health/live.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Ready serves GET /api/v1/health/ready. It fails until a snapshot is active.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.svc.Store().Current() == nil {
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "No model loaded")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
