// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/newsxpress/internal/events"
	"github.com/tomtom215/newsxpress/internal/logging"
)

// TriggerManual marks events sent by an operator.
const TriggerManual = "manual"

func newReloadCmd() *cobra.Command {
	var (
		url        string
		generation string
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Tell every server replica to reload its model",
		Long: `Reload publishes a models.trained event on the configured NATS server. Each
replica subscribed to the topic reloads its artifacts and clears its result
cache once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			evCfg := cfg.EventSettings()
			evCfg.Transport = events.TransportNATS
			evCfg.Embedded.Enabled = false
			evCfg.MaxReconnects = 0
			if url != "" {
				evCfg.URL = url
			}

			logger := cliLogger()
			pub, err := events.NewNATSPublisher(evCfg, logging.NewWatermillLogger(logger))
			if err != nil {
				return fmt.Errorf("connect to %s: %w", evCfg.URL, err)
			}
			publisher := events.NewPublisher(pub, evCfg, "recctl", logger)
			defer func() {
				publisher.Close()
				_ = pub.Close()
			}()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ev := events.ModelTrained{Generation: generation, Trigger: TriggerManual}
			if err := publisher.PublishModelTrained(ctx, ev); err != nil {
				return fmt.Errorf("publish: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s\n", evCfg.TrainedTopic, evCfg.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "NATS URL (default from NATS_URL)")
	cmd.Flags().StringVar(&generation, "generation", "", "generation id to announce")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "publish timeout")
	return cmd
}
