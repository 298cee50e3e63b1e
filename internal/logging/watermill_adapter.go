// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package logging

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
)

// WatermillLogger adapts zerolog to watermill.LoggerAdapter so the event
// publisher and subscriber log through the same pipeline as everything else.
type WatermillLogger struct {
	logger zerolog.Logger
}

var _ watermill.LoggerAdapter = (*WatermillLogger)(nil)

// NewWatermillLogger wraps logger for use by watermill components.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWatermillLogger(logger zerolog.Logger) *WatermillLogger {
	return &WatermillLogger{logger: logger}
}

// Error logs msg with err at error level.
func (w *WatermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	w.logger.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs msg at info level.
func (w *WatermillLogger) Info(msg string, fields watermill.LogFields) {
	w.logger.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Debug logs msg at debug level.
func (w *WatermillLogger) Debug(msg string, fields watermill.LogFields) {
	w.logger.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Trace logs msg at trace level.
func (w *WatermillLogger) Trace(msg string, fields watermill.LogFields) {
	w.logger.Trace().Fields(map[string]interface{}(fields)).Msg(msg)
}

// With returns an adapter whose logger carries fields.
func (w *WatermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &WatermillLogger{logger: w.logger.With().Fields(map[string]interface{}(fields)).Logger()}
}
