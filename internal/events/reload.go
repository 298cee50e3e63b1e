// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/newsxpress/internal/metrics"
)

// ErrSubscriptionClosed is returned by Serve when the transport closes the
// message channel while the listener is still supposed to run.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Refresher reloads the active snapshot and invalidates cached results.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// ReloadListener turns models.trained events into snapshot refreshes.
//
// Events only mark a refresh as pending; a single worker performs refreshes
// at most once per interval. A burst of events therefore yields at most one
// refresh in progress plus one queued, and the last event is always followed
// by a refresh.
type ReloadListener struct {
	subscriber message.Subscriber
	topic      string
	refresher  Refresher
	limiter    *rate.Limiter
	logger     zerolog.Logger
	self       string

	pending  chan struct{}
	received atomic.Int64
	reloads  atomic.Int64
}

// NewReloadListener creates a listener on topic. interval <= 0 disables
// rate limiting.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewReloadListener(sub message.Subscriber, topic string, refresher Refresher, interval time.Duration, logger zerolog.Logger) *ReloadListener {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &ReloadListener{
		subscriber: sub,
		topic:      topic,
		refresher:  refresher,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger.With().Str("component", "reload-listener").Logger(),
		pending:    make(chan struct{}, 1),
	}
}

// IgnoreSource skips events stamped with source, so a replica does not
// reload a second time after announcing its own retrain. Call before Serve.
func (l *ReloadListener) IgnoreSource(source string) {
	l.self = source
}

// Serve consumes events until ctx is done. It implements suture.Service.
func (l *ReloadListener) Serve(ctx context.Context) error {
	messages, err := l.subscriber.Subscribe(ctx, l.topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", l.topic, err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.refreshLoop(ctx)
	}()
	defer wg.Wait()

	l.logger.Info().Str("topic", l.topic).Msg("Reload listener started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return ErrSubscriptionClosed
			}
			l.accept(msg)
		}
	}
}

func (l *ReloadListener) accept(msg *message.Message) {
	ev, err := DecodeModelTrained(msg.Payload)
	msg.Ack()
	l.received.Add(1)
	metrics.RecordEventConsumed(l.topic, err)
	if err != nil {
		l.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Ignoring malformed models.trained event")
		return
	}

	if l.self != "" && ev.Source == l.self {
		l.logger.Debug().Str("generation", ev.Generation).Msg("Skipping own models.trained event")
		return
	}
	l.logger.Debug().Str("generation", ev.Generation).Str("trigger", ev.Trigger).Str("source", ev.Source).
		Msg("models.trained received")

	select {
	case l.pending <- struct{}{}:
	default:
	}
}

func (l *ReloadListener) refreshLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.pending:
		}

		if err := l.limiter.Wait(ctx); err != nil {
			return
		}

		start := time.Now()
		generation, err := l.refresher.Refresh(ctx)
		metrics.RecordRetrain("event", time.Since(start), err)
		if err != nil {
			l.logger.Error().Err(err).Msg("Event-triggered reload failed, keeping current snapshot")
			continue
		}
		l.reloads.Add(1)
		l.logger.Info().Str("generation", generation).Dur("duration", time.Since(start)).
			Msg("Snapshot reloaded from models.trained event")
	}
}

// Received returns the number of events consumed.
func (l *ReloadListener) Received() int64 { return l.received.Load() }

// Reloads returns the number of successful refreshes.
func (l *ReloadListener) Reloads() int64 { return l.reloads.Load() }

// String names the service in supervisor logs.
func (l *ReloadListener) String() string { return "reload-listener" }
