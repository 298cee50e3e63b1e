// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/events"
	"github.com/tomtom215/newsxpress/internal/metrics"
)

// Retrain triggers.
const (
	TriggerSchedule = "schedule"
	TriggerStartup  = "startup"
)

// Refresher reloads the snapshot and clears the result cache.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// TrainedPublisher announces a new model generation.
type TrainedPublisher interface {
	PublishModelTrained(ctx context.Context, ev events.ModelTrained) error
}

// RetrainConfig configures RetrainService.
type RetrainConfig struct {
	// Spec is a standard five-field cron expression.
	Spec string

	// OnStart runs one cycle as soon as the service starts.
	OnStart bool

	// Timeout bounds the trainer run. Zero means no limit.
	Timeout time.Duration

	// Location is the time zone for Spec. Nil means local time.
	Location *time.Location
}

// RetrainService runs retraining cycles on a cron schedule.
type RetrainService struct {
	config    RetrainConfig
	schedule  cron.Schedule
	trainer   Trainer
	refresher Refresher
	publisher TrainedPublisher
	logger    zerolog.Logger
	name      string

	running sync.Mutex
}

// NewRetrainService creates the service. trainer may be nil when artifacts
// are produced elsewhere and only a scheduled reload is wanted; publisher may
// be nil when events are disabled.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRetrainService(cfg RetrainConfig, trainer Trainer, refresher Refresher, publisher TrainedPublisher, logger zerolog.Logger) (*RetrainService, error) {
	schedule, err := cron.ParseStandard(cfg.Spec)
	if err != nil {
		return nil, fmt.Errorf("invalid retrain schedule %q: %w", cfg.Spec, err)
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &RetrainService{
		config:    cfg,
		schedule:  schedule,
		trainer:   trainer,
		refresher: refresher,
		publisher: publisher,
		logger:    logger.With().Str("service", "retrain").Logger(),
		name:      "retrain-scheduler",
	}, nil
}

// Serve implements suture.Service.
func (s *RetrainService) Serve(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(s.config.Location),
		cron.WithLogger(cronLogger{s.logger}),
	)
	c.Schedule(s.schedule, cron.FuncJob(func() { s.RunOnce(ctx, TriggerSchedule) }))

	var startup sync.WaitGroup
	if s.config.OnStart {
		startup.Add(1)
		go func() {
			defer startup.Done()
			s.RunOnce(ctx, TriggerStartup)
		}()
	}

	c.Start()
	s.logger.Info().
		Str("schedule", s.config.Spec).
		Time("next_run", s.schedule.Next(time.Now().In(s.config.Location))).
		Bool("on_start", s.config.OnStart).
		Msg("Retrain scheduler started")

	<-ctx.Done()
	// Running cycles see the canceled ctx; wait for them to unwind.
	<-c.Stop().Done()
	startup.Wait()
	return ctx.Err()
}

// RunOnce performs one cycle unless another is in progress, and reports
// whether it ran and succeeded.
func (s *RetrainService) RunOnce(ctx context.Context, trigger string) bool {
	if !s.running.TryLock() {
		s.logger.Warn().Str("trigger", trigger).Msg("Retrain already in progress, skipping")
		return false
	}
	defer s.running.Unlock()

	if ctx.Err() != nil {
		return false
	}

	start := time.Now()
	generation, err := s.cycle(ctx, trigger)
	metrics.RecordRetrain(trigger, time.Since(start), err)
	if err != nil {
		s.logger.Error().Err(err).Str("trigger", trigger).
			Msg("Retrain cycle failed, keeping current model")
		return false
	}
	s.logger.Info().Str("trigger", trigger).Str("generation", generation).
		Dur("duration", time.Since(start)).Msg("Retrain cycle complete")
	return true
}

func (s *RetrainService) cycle(ctx context.Context, trigger string) (string, error) {
	if s.trainer != nil {
		trainCtx := ctx
		if s.config.Timeout > 0 {
			var cancel context.CancelFunc
			trainCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
			defer cancel()
		}
		if err := s.trainer.Train(trainCtx); err != nil {
			return "", fmt.Errorf("train: %w", err)
		}
	}

	generation, err := s.refresher.Refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("reload: %w", err)
	}

	if s.publisher != nil {
		ev := events.ModelTrained{Generation: generation, Trigger: trigger}
		if err := s.publisher.PublishModelTrained(ctx, ev); err != nil {
			s.logger.Warn().Err(err).Str("generation", generation).
				Msg("Failed to announce new model, other replicas reload on their own schedule")
		}
	}
	return generation, nil
}

// String implements fmt.Stringer.
func (s *RetrainService) String() string {
	return s.name
}

// cronLogger routes cron's logging into zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
