// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/metrics"
)

// ActivityPublisher publishes activity records.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, a Activity) error
}

// ActivityTracker records user activity to a JSONL log and, when a publisher
// is set, to the activity topic. Either sink may be absent.
type ActivityTracker struct {
	publisher ActivityPublisher
	now       func() time.Time
	logger    zerolog.Logger

	mu   sync.Mutex
	file *os.File
}

// NewActivityTracker opens (creating if needed) the log at path. An empty
// path disables the file sink; a nil publisher disables publishing.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewActivityTracker(path string, publisher ActivityPublisher, logger zerolog.Logger) (*ActivityTracker, error) {
	t := &ActivityTracker{
		publisher: publisher,
		now:       time.Now,
		logger:    logger.With().Str("component", "activity-tracker").Logger(),
	}
	if path == "" {
		return t, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create activity log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	t.file = f
	return t, nil
}

// Track validates a, fills its defaults, and records it. A write failure to
// the log is returned; a publish failure is only logged.
func (t *ActivityTracker) Track(ctx context.Context, a Activity) (Activity, error) {
	if err := a.Normalize(t.now()); err != nil {
		return a, err
	}

	if err := t.append(a); err != nil {
		return a, err
	}
	metrics.RecordActivity(a.ActivityType)

	if t.publisher != nil {
		if err := t.publisher.PublishActivity(ctx, a); err != nil {
			t.logger.Warn().Err(err).Str("article_id", a.ArticleID).Msg("Activity publish failed")
		}
	}
	return a, nil
}

func (t *ActivityTracker) append(a Activity) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}

	line, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	line = append(line, '\n')
	if _, err := t.file.Write(line); err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}
	return nil
}

// Close closes the log file.
func (t *ActivityTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
