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
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/newsxpress/internal/metrics"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("event publisher is closed")

const publisherBreakerName = "event-publisher"

// Publisher publishes recommender events behind a circuit breaker.
type Publisher struct {
	publisher message.Publisher
	breaker   *gobreaker.CircuitBreaker[interface{}]
	topics    Config
	source    string
	logger    zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPublisher wraps pub. source is stamped on every models.trained event.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, cfg Config, source string, logger zerolog.Logger) *Publisher {
	logger = logger.With().Str("component", "event-publisher").Logger()

	breaker := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        publisherBreakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Event publisher circuit breaker state changed")
			metrics.RecordBreakerState(name, float64(to))
		},
	})

	return &Publisher{
		publisher: pub,
		breaker:   breaker,
		topics:    cfg,
		source:    source,
		logger:    logger,
	}
}

// PublishModelTrained announces a new generation.
func (p *Publisher) PublishModelTrained(ctx context.Context, ev ModelTrained) error {
	if ev.TrainedAt.IsZero() {
		ev.TrainedAt = time.Now().UTC()
	}
	if ev.Source == "" {
		ev.Source = p.source
	}
	return p.publish(ctx, p.topics.TrainedTopic, ev.EventID, ev)
}

// PublishActivity publishes one activity record.
func (p *Publisher) PublishActivity(ctx context.Context, a Activity) error {
	return p.publish(ctx, p.topics.ActivityTopic, a.EventID, a)
}

func (p *Publisher) publish(ctx context.Context, topic, eventID string, v interface{}) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	msg, err := newMessage(eventID, v)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.publisher.Publish(topic, msg)
	})
	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	p.logger.Debug().Str("topic", topic).Str("message_uuid", msg.UUID).Msg("Event published")
	return nil
}

// BreakerState returns the publisher breaker state.
func (p *Publisher) BreakerState() string {
	return p.breaker.State().String()
}

// Close marks the publisher closed. The underlying transport is owned by the
// caller.
func (p *Publisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
