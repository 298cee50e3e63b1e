// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/newsxpress/internal/events"
)

// CacheClearResult reports how many entries an invalidation removed.
type CacheClearResult struct {
	Scope   string `json:"scope"`
	Removed int    `json:"removed"`
}

// ReloadResult reports the generation that became active.
type ReloadResult struct {
	Generation string `json:"generation"`
}

// Track serves POST /api/v1/track.
//
// @Summary Record user activity
// @Tags Activity
// @Accept json
// @Produce json
// @Param request body TrackRequest true "Activity"
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse "Activity tracking not configured"
// @Router /track [post]
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.tracker == nil {
		rw.ServiceUnavailable(ErrCodeServiceUnavailable, "Activity tracking is not configured")
		return
	}

	var req TrackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validate(rw, &req) {
		return
	}

	activity := events.Activity{
		UserID:       req.UserID,
		ArticleID:    req.ArticleID,
		ActivityType: req.ActivityType,
		Metadata:     req.Metadata,
	}
	if req.Timestamp != nil {
		activity.Timestamp = *req.Timestamp
	}

	tracked, err := h.tracker.Track(r.Context(), activity)
	if err != nil {
		if errors.Is(err, events.ErrInvalidActivity) {
			rw.BadRequest(err.Error())
			return
		}
		h.logger.Error().Err(err).Str("article_id", req.ArticleID).Msg("Failed to record activity")
		rw.InternalError("Failed to record activity")
		return
	}
	rw.Success(tracked)
}

// CacheClear serves POST /api/v1/cache/clear. Parameters come from the JSON
// body or the query string. When both user_id and article_id are given both
// are cleared.
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CacheClearRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		rw.BadRequest(err.Error())
		return
	}
	query := r.URL.Query()
	if req.UserID == "" {
		req.UserID = query.Get("user_id")
	}
	if req.ArticleID == "" {
		req.ArticleID = query.Get("article_id")
	}
	if !req.All {
		req.All = query.Get("all") == "true"
	}
	if !validate(rw, &req) {
		return
	}

	ctx := r.Context()
	var results []CacheClearResult
	var err error
	switch {
	case req.All:
		var n int
		n, err = h.svc.InvalidateAll(ctx)
		results = append(results, CacheClearResult{Scope: "all", Removed: n})
	case req.UserID == "" && req.ArticleID == "":
		rw.BadRequest("Please provide user_id or article_id")
		return
	default:
		if req.UserID != "" {
			var n int
			n, err = h.svc.ClearUser(ctx, req.UserID)
			results = append(results, CacheClearResult{Scope: "user", Removed: n})
		}
		if err == nil && req.ArticleID != "" {
			var n int
			n, err = h.svc.ClearArticle(ctx, req.ArticleID)
			results = append(results, CacheClearResult{Scope: "article", Removed: n})
		}
	}
	if err != nil {
		h.logger.Warn().Err(err).Msg("Cache invalidation failed")
		rw.ServiceUnavailable(ErrCodeCacheUnavailable, "Result cache is unavailable")
		return
	}
	rw.SuccessList(results, len(results))
}

// CacheStats serves GET /api/v1/cache/stats.
//
// @Summary Get result cache statistics
// @Tags Operations
// @Produce json
// @Success 200 {object} APIResponse{data=cache.Stats}
// @Router /cache/stats [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.svc.Stats(r.Context()))
}

// ModelInfo serves GET /api/v1/models/info.
//
// @Summary Describe the active model
// @Tags Operations
// @Produce json
// @Success 200 {object} APIResponse{data=recommend.ModelInfo}
// @Router /models/info [get]
func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.svc.ModelInfo())
}

// ModelsReload serves POST /api/v1/models/reload. It reloads artifacts from
// disk and clears the result cache; on failure the active model stays.
func (h *Handler) ModelsReload(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	generation, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Model reload failed, keeping active snapshot")
		rw.ServiceUnavailable(ErrCodeReloadFailed, "Model reload failed: "+err.Error())
		return
	}
	rw.Success(ReloadResult{Generation: generation})
}
