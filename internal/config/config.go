// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/newsxpress/internal/cache"
	"github.com/tomtom215/newsxpress/internal/events"
	"github.com/tomtom215/newsxpress/internal/logging"
	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/recommend/artifacts"
)

// Config holds all configuration for the recommender process.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Cache     CacheConfig     `koanf:"cache"`
	Retrain   RetrainConfig   `koanf:"retrain"`
	Events    EventsConfig    `koanf:"events"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds scoring parameters.
type RecommendConfig struct {
	Alpha              float64 `koanf:"alpha"`
	Beta               float64 `koanf:"beta"`
	Neighbors          int     `koanf:"neighbors"`
	DefaultTopN        int     `koanf:"default_top_n"`
	MaxTopN            int     `koanf:"max_top_n"`
	TrendingWindowDays int     `koanf:"trending_window_days"`
}

// ArtifactsConfig locates trained artifacts.
type ArtifactsConfig struct {
	Dir string `koanf:"dir"`
	// ArchivePath is the badger directory holding past generations. Empty
	// keeps the archive in memory.
	ArchivePath      string `koanf:"archive_path"`
	ArchiveRetention int    `koanf:"archive_retention"`
	SyncWrites       bool   `koanf:"sync_writes"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	// Backend is redis, memory, or none.
	Backend           string        `koanf:"backend"`
	Redis             RedisConfig   `koanf:"redis"`
	PersonalizedTTL   time.Duration `koanf:"personalized_ttl"`
	AnonymousTTL      time.Duration `koanf:"anonymous_ttl"`
	TrendingTTL       time.Duration `koanf:"trending_ttl"`
	OpTimeout         time.Duration `koanf:"op_timeout"`
	InvalidateTimeout time.Duration `koanf:"invalidate_timeout"`
	CleanupInterval   time.Duration `koanf:"cleanup_interval"`
	Breaker           BreakerConfig `koanf:"breaker"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	PoolSize  int    `koanf:"pool_size"`
	KeyPrefix string `koanf:"key_prefix"`
}

// BreakerConfig holds circuit breaker settings for the cache.
type BreakerConfig struct {
	MaxRequests      uint32        `koanf:"max_requests"`
	Interval         time.Duration `koanf:"interval"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
}

// RetrainConfig controls the retraining trigger.
type RetrainConfig struct {
	Enabled bool `koanf:"enabled"`
	// Schedule is daily, weekly, monthly, or cron.
	Schedule string `koanf:"schedule"`
	Hour     int    `koanf:"hour"`
	Minute   int    `koanf:"minute"`
	// Day is a weekday name for weekly schedules and a day of month for
	// monthly ones.
	Day      string `koanf:"day"`
	CronExpr string `koanf:"cron"`
	OnStart  bool   `koanf:"on_start"`
	// Command is the trainer argv. Empty means the trainer runs elsewhere and
	// a cycle only reloads.
	Command []string      `koanf:"command"`
	WorkDir string        `koanf:"work_dir"`
	Timeout time.Duration `koanf:"timeout"`
}

// EventsConfig holds event transport settings.
type EventsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Transport       string        `koanf:"transport"`
	URL             string        `koanf:"url"`
	Embedded        bool          `koanf:"embedded"`
	EmbeddedHost    string        `koanf:"embedded_host"`
	EmbeddedPort    int           `koanf:"embedded_port"`
	QueueGroup      string        `koanf:"queue_group"`
	TrainedTopic    string        `koanf:"trained_topic"`
	ActivityTopic   string        `koanf:"activity_topic"`
	ReloadInterval  time.Duration `koanf:"reload_interval"`
	ActivityLogPath string        `koanf:"activity_log_path"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	// AdminRateLimitReqs applies to cache and model management routes.
	AdminRateLimitReqs int `koanf:"admin_rate_limit_reqs"`
}

// LoggingSettings converts to the logging package configuration.
func (c *Config) LoggingSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}

// RecommendSettings converts to the recommend service configuration.
func (c *Config) RecommendSettings() recommend.Config {
	return recommend.Config{
		Alpha:              c.Recommend.Alpha,
		Beta:               c.Recommend.Beta,
		Neighbors:          c.Recommend.Neighbors,
		DefaultTopN:        c.Recommend.DefaultTopN,
		MaxTopN:            c.Recommend.MaxTopN,
		TrendingWindowDays: c.Recommend.TrendingWindowDays,
		PersonalizedTTL:    c.Cache.PersonalizedTTL,
		AnonymousTTL:       c.Cache.AnonymousTTL,
		TrendingTTL:        c.Cache.TrendingTTL,
	}
}

// CacheSettings converts to the result cache configuration.
func (c *Config) CacheSettings() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.OpTimeout = c.Cache.OpTimeout
	cfg.InvalidateTimeout = c.Cache.InvalidateTimeout
	cfg.Breaker.MaxRequests = c.Cache.Breaker.MaxRequests
	cfg.Breaker.Interval = c.Cache.Breaker.Interval
	cfg.Breaker.Timeout = c.Cache.Breaker.Timeout
	cfg.Breaker.FailureThreshold = c.Cache.Breaker.FailureThreshold
	return cfg
}

// RedisSettings converts to the Redis backend configuration.
func (c *Config) RedisSettings() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:      c.Cache.Redis.Addr,
		Password:  c.Cache.Redis.Password,
		DB:        c.Cache.Redis.DB,
		PoolSize:  c.Cache.Redis.PoolSize,
		KeyPrefix: c.Cache.Redis.KeyPrefix,
	}
}

// ArchiveSettings converts to the artifact archive configuration.
func (c *Config) ArchiveSettings() artifacts.ArchiveConfig {
	return artifacts.ArchiveConfig{
		Path:       c.Artifacts.ArchivePath,
		Retention:  c.Artifacts.ArchiveRetention,
		SyncWrites: c.Artifacts.SyncWrites,
	}
}

// EventSettings converts to the events package configuration.
func (c *Config) EventSettings() events.Config {
	cfg := events.DefaultConfig()
	cfg.Enabled = c.Events.Enabled
	cfg.Transport = c.Events.Transport
	cfg.URL = c.Events.URL
	cfg.Embedded = events.EmbeddedConfig{
		Enabled: c.Events.Embedded,
		Host:    c.Events.EmbeddedHost,
		Port:    c.Events.EmbeddedPort,
	}
	cfg.QueueGroup = c.Events.QueueGroup
	cfg.TrainedTopic = c.Events.TrainedTopic
	cfg.ActivityTopic = c.Events.ActivityTopic
	cfg.ReloadInterval = c.Events.ReloadInterval
	cfg.ActivityLogPath = c.Events.ActivityLogPath
	return cfg
}
