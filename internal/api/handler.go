// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/events"
	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/validation"
)

// ActivityTracker records user interactions.
type ActivityTracker interface {
	Track(ctx context.Context, a events.Activity) (events.Activity, error)
}

// Handler serves the HTTP API on top of a recommend.Service.
type Handler struct {
	svc       *recommend.Service
	tracker   ActivityTracker
	logger    zerolog.Logger
	startedAt time.Time
}

// NewHandler creates a Handler. tracker may be nil, in which case the track
// endpoint reports the service as unavailable.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(svc *recommend.Service, tracker ActivityTracker, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:       svc,
		tracker:   tracker,
		logger:    logger.With().Str("component", "api").Logger(),
		startedAt: time.Now(),
	}
}

// validate writes a 400 response and returns false when v fails validation.
func validate(rw *ResponseWriter, v interface{}) bool {
	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
		return false
	}
	return true
}
