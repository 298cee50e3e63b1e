// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package events

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/logging"
)

// Transport bundles the publisher and subscriber for the configured backend,
// plus the embedded server when one was started.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	server *EmbeddedServer
	memory *gochannel.GoChannel
}

// NewTransport connects the configured transport.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTransport(cfg Config, logger zerolog.Logger) (*Transport, error) {
	wmLogger := logging.NewWatermillLogger(logger.With().Str("component", "events").Logger())

	switch cfg.Transport {
	case TransportMemory:
		ch := NewMemoryPubSub(wmLogger)
		return &Transport{Publisher: ch, Subscriber: ch, memory: ch}, nil
	case TransportNATS:
	default:
		return nil, fmt.Errorf("unknown events transport %q", cfg.Transport)
	}

	t := &Transport{}
	if cfg.Embedded.Enabled {
		srv, err := NewEmbeddedServer(cfg.Embedded)
		if err != nil {
			return nil, err
		}
		t.server = srv
		cfg.URL = srv.ClientURL()
		logger.Info().Str("url", cfg.URL).Msg("Embedded NATS server started")
	}

	pub, err := NewNATSPublisher(cfg, wmLogger)
	if err != nil {
		t.shutdownServer()
		return nil, err
	}
	t.Publisher = pub

	sub, err := NewNATSSubscriber(cfg, wmLogger)
	if err != nil {
		_ = pub.Close()
		t.shutdownServer()
		return nil, err
	}
	t.Subscriber = sub

	return t, nil
}

// ClientURL returns the embedded server URL, or "" when none is running.
func (t *Transport) ClientURL() string {
	if t.server == nil {
		return ""
	}
	return t.server.ClientURL()
}

// Close closes the subscriber, then the publisher, then the embedded server.
func (t *Transport) Close() error {
	var errs []error
	if t.memory != nil {
		errs = append(errs, t.memory.Close())
	} else {
		if t.Subscriber != nil {
			errs = append(errs, t.Subscriber.Close())
		}
		if t.Publisher != nil {
			errs = append(errs, t.Publisher.Close())
		}
	}
	t.shutdownServer()
	return errors.Join(errs...)
}

func (t *Transport) shutdownServer() {
	if t.server != nil {
		t.server.Shutdown()
		t.server = nil
	}
}

// NewMemoryPubSub returns an in-process pub/sub.
func NewMemoryPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
}

func natsOptions(cfg Config, logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("newsxpress-recommender"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// NewNATSPublisher creates a core NATS publisher.
func NewNATSPublisher(cfg Config, logger watermill.LoggerAdapter) (message.Publisher, error) {
	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions(cfg, logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS publisher: %w", err)
	}
	return pub, nil
}

// NewNATSSubscriber creates a core NATS subscriber in the configured queue
// group.
func NewNATSSubscriber(cfg Config, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOptions(cfg, logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create NATS subscriber: %w", err)
	}
	return sub, nil
}
