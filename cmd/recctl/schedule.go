// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newScheduleCmd() *cobra.Command {
	var runs int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show the configured retrain schedule and its next runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			spec, err := cfg.Retrain.CronSpec()
			if err != nil {
				return err
			}
			schedule, err := cron.ParseStandard(spec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "enabled:  %t\n", cfg.Retrain.Enabled)
			fmt.Fprintf(out, "schedule: %s (%s)\n", cfg.Retrain.Schedule, spec)
			next := time.Now()
			for i := 0; i < runs; i++ {
				next = schedule.Next(next)
				fmt.Fprintf(out, "  %s\n", next.Format(time.RFC1123))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&runs, "runs", "n", 5, "number of upcoming runs to show")
	return cmd
}
