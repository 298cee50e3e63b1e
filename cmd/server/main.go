// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

// Package main is the entry point for the NewsXpress recommendation server.
//
// The server initializes components in this order:
//
//  1. Configuration: defaults, config file, environment (Koanf v2)
//  2. Result cache: Redis, in-memory, or none
//  3. Artifact store: trained artifacts from ARTIFACTS_DIR, archived in BadgerDB
//  4. Recommendation service and the initial snapshot load
//  5. Events (optional): NATS transport, models.trained listener, activity publisher
//  6. Retrain scheduler (optional)
//  7. HTTP server under the supervisor tree
//
// A missing or broken artifact set at startup is not fatal: the server starts,
// answers every request from an empty trending list with fallback set, and
// picks up the model on the next reload.
//
// SIGINT and SIGTERM trigger a graceful shutdown bounded by
// HTTP_SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/api"
	"github.com/tomtom215/newsxpress/internal/config"
	"github.com/tomtom215/newsxpress/internal/logging"
	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/supervisor"
	"github.com/tomtom215/newsxpress/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LoggingSettings())
	logger := logging.Logger()

	if err := run(cfg, logger); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func run(cfg *config.Config, logger zerolog.Logger) error {
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Str("cache_backend", cfg.Cache.Backend).
		Str("artifacts_dir", cfg.Artifacts.Dir).
		Bool("events", cfg.Events.Enabled).
		Bool("retrain", cfg.Retrain.Enabled).
		Msg("Starting NewsXpress recommender")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resultCache, closeCache, err := initCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCache()

	store, closeArchive, err := initArtifactStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeArchive()

	svc := recommend.NewService(store, resultCache, cfg.RecommendSettings(), logger)
	if generation, err := svc.ReloadSnapshot(ctx); err != nil {
		logging.Warn().Err(err).Str("dir", cfg.Artifacts.Dir).
			Msg("No model loaded at startup, serving trending fallback until a reload succeeds")
	} else {
		logging.Info().Str("generation", generation).Msg("Model loaded")
	}

	instanceID := instanceName()
	ev, err := initEvents(cfg, svc, instanceID, logger)
	if err != nil {
		return err
	}
	defer ev.Close()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if ev.listener != nil {
		tree.AddMessagingService(ev.listener)
	}
	if cfg.Retrain.Enabled {
		retrain, err := initRetrain(cfg, svc, ev.trainedPublisher(), logger)
		if err != nil {
			return err
		}
		tree.AddModelService(retrain)
	}

	handler := api.NewHandler(svc, ev.tracker, logger)
	router := api.NewRouter(handler, middlewareConfig(cfg), logger)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	serveErr := <-errCh
	if errors.Is(serveErr, context.Canceled) {
		serveErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
	}
	return serveErr
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mw.AdminRateLimitRequests = cfg.Security.AdminRateLimitReqs
	return mw
}

// instanceName identifies this replica on the event bus.
func instanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "newsxpress"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
