// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/newsxpress/internal/cache"
	"github.com/tomtom215/newsxpress/internal/recommend"
)

func newInvalidateCmd() *cobra.Command {
	var (
		userID    string
		articleID string
		all       bool
		addr      string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Remove cached recommendations from Redis",
		Long: `Invalidate deletes cached results for one user, one article, or (with --all)
the whole recommendation namespace, on the Redis configured for the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := invalidationPatterns(userID, articleID, all)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			redisCfg := cfg.RedisSettings()
			if addr != "" {
				redisCfg.Addr = addr
			}
			backend := cache.NewRedisBackend(redisCfg)
			defer func() { _ = backend.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			for _, pattern := range patterns {
				n, err := backend.DeletePattern(ctx, pattern)
				if err != nil {
					return fmt.Errorf("invalidate %s: %w", pattern, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: removed %d\n", pattern, n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "clear results computed for this user")
	cmd.Flags().StringVar(&articleID, "article", "", "clear results computed around this article")
	cmd.Flags().BoolVar(&all, "all", false, "clear every cached recommendation")
	cmd.Flags().StringVar(&addr, "redis-addr", "", "Redis address (default from REDIS_ADDR)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	return cmd
}

func invalidationPatterns(userID, articleID string, all bool) ([]string, error) {
	if all {
		return []string{recommend.AllPattern()}, nil
	}
	var patterns []string
	if userID != "" {
		patterns = append(patterns, recommend.UserPattern(userID))
	}
	if articleID != "" {
		patterns = append(patterns, recommend.ArticlePattern(articleID))
	}
	if len(patterns) == 0 {
		return nil, errors.New("provide --user, --article or --all")
	}
	return patterns, nil
}
