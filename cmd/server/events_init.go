// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/config"
	"github.com/tomtom215/newsxpress/internal/events"
	"github.com/tomtom215/newsxpress/internal/logging"
	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/supervisor/services"
)

// eventComponents holds the event-side wiring. With events disabled only the
// tracker is set, writing to the activity log alone.
type eventComponents struct {
	transport *events.Transport
	publisher *events.Publisher
	listener  *events.ReloadListener
	tracker   *events.ActivityTracker
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initEvents(cfg *config.Config, svc *recommend.Service, instanceID string, logger zerolog.Logger) (*eventComponents, error) {
	ec := &eventComponents{}
	evCfg := cfg.EventSettings()

	var activityPub events.ActivityPublisher
	if evCfg.Enabled {
		transport, err := events.NewTransport(evCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect events transport: %w", err)
		}
		ec.transport = transport
		ec.publisher = events.NewPublisher(transport.Publisher, evCfg, instanceID, logger)
		activityPub = ec.publisher

		ec.listener = events.NewReloadListener(transport.Subscriber, evCfg.TrainedTopic, svc, evCfg.ReloadInterval, logger)
		ec.listener.IgnoreSource(instanceID)

		logging.Info().
			Str("transport", evCfg.Transport).
			Str("url", transport.ClientURL()).
			Str("trained_topic", evCfg.TrainedTopic).
			Str("activity_topic", evCfg.ActivityTopic).
			Msg("Events enabled")
	} else {
		logging.Info().Msg("Events disabled (EVENTS_ENABLED=false)")
	}

	tracker, err := events.NewActivityTracker(evCfg.ActivityLogPath, activityPub, logger)
	if err != nil {
		ec.Close()
		return nil, err
	}
	ec.tracker = tracker
	return ec, nil
}

// trainedPublisher returns the publisher as an interface, nil when events
// are disabled.
func (ec *eventComponents) trainedPublisher() services.TrainedPublisher {
	if ec.publisher == nil {
		return nil
	}
	return ec.publisher
}

// Close releases everything initEvents opened.
func (ec *eventComponents) Close() {
	if ec.tracker != nil {
		if err := ec.tracker.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing activity log")
		}
	}
	if ec.publisher != nil {
		ec.publisher.Close()
	}
	if ec.transport != nil {
		if err := ec.transport.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing events transport")
		}
	}
}

// initRetrain builds the retrain scheduler from the configured schedule.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func initRetrain(cfg *config.Config, svc *recommend.Service, publisher services.TrainedPublisher, logger zerolog.Logger) (*services.RetrainService, error) {
	spec, err := cfg.Retrain.CronSpec()
	if err != nil {
		return nil, err
	}

	var trainer services.Trainer
	if len(cfg.Retrain.Command) > 0 {
		ct, err := services.NewCommandTrainer(cfg.Retrain.Command, cfg.Retrain.WorkDir, logger)
		if err != nil {
			return nil, err
		}
		trainer = ct
	} else {
		logging.Info().Msg("No RETRAIN_COMMAND set, scheduled cycles only reload artifacts")
	}

	return services.NewRetrainService(services.RetrainConfig{
		Spec:    spec,
		OnStart: cfg.Retrain.OnStart,
		Timeout: cfg.Retrain.Timeout,
	}, trainer, svc, publisher, logger)
}
