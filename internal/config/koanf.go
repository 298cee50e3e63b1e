// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/newsxpress/internal/events"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/newsxpress/config.yaml",
	"/etc/newsxpress/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 20 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Recommend: RecommendConfig{
			Alpha:              0.6,
			Beta:               0.4,
			Neighbors:          5,
			DefaultTopN:        10,
			MaxTopN:            100,
			TrendingWindowDays: 7,
		},
		Artifacts: ArtifactsConfig{
			Dir:              "models",
			ArchivePath:      "data/archive",
			ArchiveRetention: 5,
		},
		Cache: CacheConfig{
			Backend: "redis",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				PoolSize:  10,
				KeyPrefix: "newsxpress:",
			},
			PersonalizedTTL:   15 * time.Minute,
			AnonymousTTL:      30 * time.Minute,
			TrendingTTL:       30 * time.Minute,
			OpTimeout:         250 * time.Millisecond,
			InvalidateTimeout: 10 * time.Second,
			CleanupInterval:   time.Minute,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Retrain: RetrainConfig{
			Enabled:  false,
			Schedule: ScheduleWeekly,
			Hour:     2,
			Minute:   0,
			Day:      "sunday",
			Timeout:  time.Hour,
		},
		Events: EventsConfig{
			Enabled:        false,
			Transport:      events.TransportNATS,
			URL:            "nats://127.0.0.1:4222",
			Embedded:       true,
			EmbeddedHost:   "127.0.0.1",
			EmbeddedPort:   4222,
			TrainedTopic:   events.TopicModelsTrained,
			ActivityTopic:  events.TopicActivity,
			ReloadInterval: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:        []string{"*"},
			RateLimitReqs:      100,
			RateLimitWindow:    time.Minute,
			AdminRateLimitReqs: 10,
		},
	}
}

// Load builds the configuration from defaults, the optional config file and
// the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment. retrain.command splits on whitespace instead.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		if err := splitString(k, path, func(s string) []string { return strings.Split(s, ",") }); err != nil {
			return err
		}
	}
	return splitString(k, "retrain.command", strings.Fields)
}

func splitString(k *koanf.Koanf, path string, split func(string) []string) error {
	strVal, ok := k.Get(path).(string)
	if !ok || strVal == "" {
		return nil
	}
	parts := split(strVal)
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}
	if len(trimmed) == 0 {
		return nil
	}
	if err := k.Set(path, trimmed); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

// envMappings maps environment variables (lowercased) to koanf paths.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"alpha":                "recommend.alpha",
	"beta":                 "recommend.beta",
	"neighbors":            "recommend.neighbors",
	"default_top_n":        "recommend.default_top_n",
	"max_top_n":            "recommend.max_top_n",
	"trending_window_days": "recommend.trending_window_days",

	"artifacts_dir":     "artifacts.dir",
	"archive_path":      "artifacts.archive_path",
	"archive_retention": "artifacts.archive_retention",

	"cache_backend":            "cache.backend",
	"redis_addr":               "cache.redis.addr",
	"redis_password":           "cache.redis.password",
	"redis_db":                 "cache.redis.db",
	"redis_pool_size":          "cache.redis.pool_size",
	"redis_key_prefix":         "cache.redis.key_prefix",
	"cache_personalized_ttl":   "cache.personalized_ttl",
	"cache_anonymous_ttl":      "cache.anonymous_ttl",
	"cache_trending_ttl":       "cache.trending_ttl",
	"cache_op_timeout":         "cache.op_timeout",
	"cache_invalidate_timeout": "cache.invalidate_timeout",

	"retrain_enabled":  "retrain.enabled",
	"retrain_schedule": "retrain.schedule",
	"retrain_hour":     "retrain.hour",
	"retrain_minute":   "retrain.minute",
	"retrain_day":      "retrain.day",
	"retrain_cron":     "retrain.cron",
	"retrain_on_start": "retrain.on_start",
	"retrain_command":  "retrain.command",
	"retrain_work_dir": "retrain.work_dir",
	"retrain_timeout":  "retrain.timeout",

	"events_enabled":         "events.enabled",
	"events_transport":       "events.transport",
	"nats_url":               "events.url",
	"nats_embedded":          "events.embedded",
	"nats_embedded_port":     "events.embedded_port",
	"nats_queue_group":       "events.queue_group",
	"events_reload_interval": "events.reload_interval",
	"activity_log_path":      "events.activity_log_path",

	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_reqs",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"admin_rate_limit_reqs": "security.admin_rate_limit_reqs",
}

// envTransformFunc maps an environment variable to its koanf path. Unmapped
// variables return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
