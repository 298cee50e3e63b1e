// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// SlogHandler is a slog.Handler that writes through zerolog. The supervisor
// tree (sutureslog) only speaks slog.
type SlogHandler struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogHandler wraps the given zerolog logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandler(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled reports whether records at level would be written.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := slogLevel(level)
	return zl >= h.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(slogLevel(record.Level))
	record.Attrs(func(attr slog.Attr) bool {
		event = appendAttr(event, h.prefix, attr)
		return true
	})
	event.Msg(record.Message)
	return nil
}

// WithAttrs returns a handler whose logger carries attrs as fields.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	logCtx := h.logger.With()
	for _, attr := range attrs {
		logCtx = logCtx.Interface(h.prefix+attr.Key, attr.Value.Resolve().Any())
	}
	return &SlogHandler{logger: logCtx.Logger(), prefix: h.prefix}
}

// WithGroup returns a handler that prefixes subsequent keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, prefix: h.prefix + name + "."}
}

func appendAttr(event *zerolog.Event, prefix string, attr slog.Attr) *zerolog.Event {
	value := attr.Value.Resolve()
	key := prefix + attr.Key

	switch value.Kind() {
	case slog.KindString:
		return event.Str(key, value.String())
	case slog.KindInt64:
		return event.Int64(key, value.Int64())
	case slog.KindUint64:
		return event.Uint64(key, value.Uint64())
	case slog.KindFloat64:
		return event.Float64(key, value.Float64())
	case slog.KindBool:
		return event.Bool(key, value.Bool())
	case slog.KindDuration:
		return event.Dur(key, value.Duration())
	case slog.KindTime:
		return event.Time(key, value.Time())
	case slog.KindGroup:
		groupPrefix := key + "."
		if attr.Key == "" {
			groupPrefix = prefix
		}
		for _, ga := range value.Group() {
			event = appendAttr(event, groupPrefix, ga)
		}
		return event
	default:
		if err, ok := value.Any().(error); ok {
			return event.AnErr(key, err)
		}
		return event.Interface(key, value.Any())
	}
}

func slogLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger returns a slog.Logger backed by the global zerolog logger.
//
//	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler(WithComponent("supervisor")))
}
