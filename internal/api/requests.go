// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/newsxpress/internal/recommend"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// RecommendationRequest is the unified recommendation query. The method is
// not validated here: an unknown method is served from trending.
type RecommendationRequest struct {
	Method         string   `json:"method" validate:"max=32"`
	UserID         string   `json:"user_id" validate:"omitempty,entityid"`
	ArticleID      string   `json:"article_id" validate:"omitempty,entityid"`
	RecentArticles []string `json:"recent_articles" validate:"max=100,dive,entityid"`
	Alpha          *float64 `json:"alpha" validate:"omitempty,gte=0"`
	Beta           *float64 `json:"beta" validate:"omitempty,gte=0"`
	TopN           int      `json:"top_n" validate:"gte=0"`
	Days           int      `json:"days" validate:"gte=0,lte=3650"`
	Exclude        []string `json:"exclude" validate:"max=1000,dive,entityid"`
}

func (q *RecommendationRequest) toService() recommend.Request {
	return recommend.Request{
		Method:     q.Method,
		UserID:     q.UserID,
		ArticleID:  q.ArticleID,
		Recent:     q.RecentArticles,
		Alpha:      q.Alpha,
		Beta:       q.Beta,
		TopN:       q.TopN,
		WindowDays: q.Days,
		Exclude:    recommend.NewIDSet(q.Exclude...),
	}
}

// TrackRequest records one user interaction.
type TrackRequest struct {
	UserID       string            `json:"user_id" validate:"omitempty,entityid"`
	ArticleID    string            `json:"article_id" validate:"required,entityid"`
	ActivityType string            `json:"activity_type" validate:"required,max=32,printascii"`
	Timestamp    *time.Time        `json:"timestamp"`
	Metadata     map[string]string `json:"metadata" validate:"max=32"`
}

// CacheClearRequest selects cache entries to remove.
type CacheClearRequest struct {
	UserID    string `json:"user_id" validate:"omitempty,entityid"`
	ArticleID string `json:"article_id" validate:"omitempty,entityid"`
	All       bool   `json:"all"`
}

var errEmptyBody = errors.New("empty request body")

// decodeJSON decodes the request body into v. An empty body returns
// errEmptyBody and leaves v untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// parseRecommendationQuery reads the unified request from URL parameters.
// List parameters may be repeated or comma separated.
func parseRecommendationQuery(values url.Values) (RecommendationRequest, error) {
	q := RecommendationRequest{
		Method:         values.Get("method"),
		UserID:         values.Get("user_id"),
		ArticleID:      values.Get("article_id"),
		RecentArticles: listParam(values, "recent_articles"),
		Exclude:        listParam(values, "exclude"),
	}

	var err error
	if q.TopN, err = intParam(values, "top_n"); err != nil {
		return q, err
	}
	if q.Days, err = intParam(values, "days"); err != nil {
		return q, err
	}
	if q.Alpha, err = floatParam(values, "alpha"); err != nil {
		return q, err
	}
	if q.Beta, err = floatParam(values, "beta"); err != nil {
		return q, err
	}
	return q, nil
}

func intParam(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, raw)
	}
	return n, nil
}

func floatParam(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return &f, nil
}

func listParam(values url.Values, key string) []string {
	var out []string
	for _, raw := range values[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
