// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/newsxpress/internal/recommend"
)

// Recommendations serves GET and POST /api/v1/recommendations.
//
// @Summary Get recommendations
// @Description Returns ranked articles for the requested method (trending, content, collaborative or hybrid). Unavailable methods fall back to trending.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param method query string false "trending, content, similar, collaborative or hybrid"
// @Param user_id query string false "User id for personalized methods"
// @Param article_id query string false "Seed article for content similarity"
// @Param top_n query int false "Number of results (default 10)"
// @Param days query int false "Trending window in days (default 7)"
// @Success 200 {object} APIResponse{data=[]recommend.Recommendation}
// @Failure 400 {object} APIResponse
// @Router /recommendations [get]
// @Router /recommendations [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, ok := h.readRecommendationRequest(rw, w, r)
	if !ok {
		return
	}
	h.respond(rw, r, q)
}

// Similar serves GET /api/v1/recommendations/similar/{articleID}.
//
// @Summary Get similar articles
// @Tags Recommendations
// @Produce json
// @Param articleID path string true "Seed article id"
// @Success 200 {object} APIResponse{data=[]recommend.Recommendation}
// @Router /recommendations/similar/{articleID} [get]
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, err := parseRecommendationQuery(r.URL.Query())
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	q.Method = string(recommend.MethodContent)
	q.ArticleID = chi.URLParam(r, "articleID")
	if !validate(rw, &q) {
		return
	}
	h.respond(rw, r, q)
}

// Personalized serves GET and POST /api/v1/recommendations/personalized/{userID}.
// The method defaults to hybrid; content is not accepted here.
func (h *Handler) Personalized(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, ok := h.readRecommendationRequest(rw, w, r)
	if !ok {
		return
	}
	q.UserID = chi.URLParam(r, "userID")
	if q.Method == "" {
		q.Method = string(recommend.MethodHybrid)
	}
	if m, err := recommend.ParseMethod(q.Method); err == nil && !m.Personalized() && m != recommend.MethodTrending {
		rw.BadRequest("personalized recommendations support collaborative, hybrid or trending")
		return
	}
	if !validate(rw, &q) {
		return
	}
	h.respond(rw, r, q)
}

// Trending serves GET /api/v1/recommendations/trending.
//
// @Summary Get trending articles
// @Tags Recommendations
// @Produce json
// @Param days query int false "Window in days"
// @Success 200 {object} APIResponse{data=[]recommend.Recommendation}
// @Router /recommendations/trending [get]
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q, err := parseRecommendationQuery(r.URL.Query())
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	q.Method = string(recommend.MethodTrending)
	if !validate(rw, &q) {
		return
	}
	h.respond(rw, r, q)
}

// readRecommendationRequest reads query parameters for GET and a JSON body
// for POST. An empty POST body is an empty request.
func (h *Handler) readRecommendationRequest(rw *ResponseWriter, w http.ResponseWriter, r *http.Request) (RecommendationRequest, bool) {
	var q RecommendationRequest
	if r.Method == http.MethodPost {
		if err := decodeJSON(w, r, &q); err != nil && !errors.Is(err, errEmptyBody) {
			rw.BadRequest(err.Error())
			return q, false
		}
	} else {
		var err error
		if q, err = parseRecommendationQuery(r.URL.Query()); err != nil {
			rw.BadRequest(err.Error())
			return q, false
		}
	}
	if !validate(rw, &q) {
		return q, false
	}
	return q, true
}

func (h *Handler) respond(rw *ResponseWriter, r *http.Request, q RecommendationRequest) {
	resp := h.svc.Recommend(r.Context(), q.toService())
	if resp.Fallback {
		h.logger.Debug().
			Str("requested_method", resp.RequestedMethod).
			Str("reason", resp.FallbackReason).
			Msg("Served trending fallback")
	}
	rw.SuccessList(resp, len(resp.Recommendations))
}
