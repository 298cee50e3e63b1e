// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/newsxpress/internal/events"
)

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateArtifacts(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateRetrain(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateRecommend checks the scoring parameters together with the cache
// TTLs they are served under.
func (c *Config) validateRecommend() error {
	if err := c.RecommendSettings().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateArtifacts() error {
	if c.Artifacts.Dir == "" {
		return fmt.Errorf("ARTIFACTS_DIR is required")
	}
	if c.Artifacts.ArchiveRetention < 1 {
		return fmt.Errorf("ARCHIVE_RETENTION must be at least 1, got %d", c.Artifacts.ArchiveRetention)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
		}
	case "memory", "none":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of redis, memory, none, got %q", c.Cache.Backend)
	}
	if c.Cache.OpTimeout <= 0 {
		return fmt.Errorf("cache op timeout must be positive, got %s", c.Cache.OpTimeout)
	}
	if c.Cache.InvalidateTimeout <= 0 {
		return fmt.Errorf("cache invalidate timeout must be positive, got %s", c.Cache.InvalidateTimeout)
	}
	if c.Cache.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("cache breaker failure threshold must be positive")
	}
	return nil
}

func (c *Config) validateRetrain() error {
	if !c.Retrain.Enabled {
		return nil
	}
	if _, err := c.Retrain.CronSpec(); err != nil {
		return err
	}
	if len(c.Retrain.Command) > 0 && c.Retrain.Timeout <= 0 {
		return fmt.Errorf("RETRAIN_TIMEOUT must be positive, got %s", c.Retrain.Timeout)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.Enabled && c.Events.Transport == events.TransportNATS && !c.Events.Embedded {
		if err := validateNATSURL(c.Events.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}
	cfg := c.EventSettings()
	return cfg.Validate()
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
	}
	if c.Security.AdminRateLimitReqs < 1 {
		return fmt.Errorf("admin rate limit must be positive, got %d", c.Security.AdminRateLimitReqs)
	}
	return nil
}

// validateNATSURL accepts nats, tls, ws, and wss URLs with a host.
func validateNATSURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	validSchemes := map[string]bool{"nats": true, "tls": true, "ws": true, "wss": true}
	if !validSchemes[parsedURL.Scheme] {
		return fmt.Errorf("scheme must be nats, tls, ws, or wss, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("host is required (e.g., localhost:4222)")
	}
	return nil
}
