// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/newsxpress/internal/logging"
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// APIMeta carries request metadata.
type APIMeta struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
	// Count is the number of items in list responses.
	Count *int `json:"count,omitempty"`
}

// Error codes.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeCacheUnavailable   = "CACHE_UNAVAILABLE"
	ErrCodeReloadFailed       = "RELOAD_FAILED"
)

// ResponseWriter writes envelopes for one request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter starts timing a response.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data}, nil)
}

// SuccessList writes a 200 with data and the item count in meta.
func (rw *ResponseWriter) SuccessList(data interface{}, count int) {
	rw.write(http.StatusOK, APIResponse{Success: true, Data: data}, &count)
}

// Error writes a failure envelope.
func (rw *ResponseWriter) Error(status int, code, message string) {
	rw.ErrorWithDetails(status, code, message, nil)
}

// ErrorWithDetails writes a failure envelope with details.
func (rw *ResponseWriter) ErrorWithDetails(status int, code, message string, details interface{}) {
	rw.write(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message, Details: details},
	}, nil)
}

// BadRequest writes a 400.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// ServiceUnavailable writes a 503.
func (rw *ResponseWriter) ServiceUnavailable(code, message string) {
	rw.Error(http.StatusServiceUnavailable, code, message)
}

// InternalError writes a 500. The message is sent as given, so callers pass
// a client-safe text and log the cause themselves.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, ErrCodeInternalError, message)
}

func (rw *ResponseWriter) write(status int, resp APIResponse, count *int) {
	resp.Meta = &APIMeta{
		RequestID:  logging.RequestIDFromContext(rw.r.Context()),
		Timestamp:  time.Now().UTC(),
		DurationMs: time.Since(rw.startTime).Milliseconds(),
		Count:      count,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		body = []byte(`{"success":false,"error":{"code":"INTERNAL_ERROR","message":"failed to encode response"}}`)
	}

	rw.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.w.Header().Set("Cache-Control", "no-store")
	rw.w.WriteHeader(status)
	if _, err := rw.w.Write(body); err != nil {
		logging.Ctx(rw.r.Context()).Debug().Err(err).Msg("Failed to write response")
	}
}
