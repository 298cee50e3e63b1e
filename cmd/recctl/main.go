// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

// Package main is recctl, the operator CLI for the recommendation server.
//
//	recctl validate models/           # check a trainer output directory
//	recctl reload --generation g-42   # announce a new model on NATS
//	recctl invalidate --user u1       # clear cached results in Redis
//	recctl normalize '{Sports,"Politics"}'
//	recctl schedule                   # show the next retrain runs
//
// Connection settings come from the same config file and environment as the
// server; flags override them.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/newsxpress/internal/config"
	"github.com/tomtom215/newsxpress/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "recctl",
		Short:         "Operate the NewsXpress recommendation server",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Timestamp: true, Output: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newValidateCmd(),
		newReloadCmd(),
		newInvalidateCmd(),
		newNormalizeCmd(),
		newScheduleCmd(),
	)
	return root
}

// loadConfig reads the server configuration.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

func cliLogger() zerolog.Logger {
	return logging.Logger()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
