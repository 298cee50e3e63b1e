// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package config loads the recommender's configuration with Koanf v2.

# Configuration Sources

Layers are applied in order, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml / config.yml in the
    working directory, else /etc/newsxpress/config.yaml
 3. Environment variables listed in envMappings

Only mapped environment variables are read; anything else in the process
environment is ignored.

# Sections

  - server: HTTP listener and timeouts
  - logging: level, format, caller
  - recommend: fusion weights, neighbor count, result sizes, trending window
  - artifacts: snapshot directory and the badger archive of past generations
  - cache: backend (redis, memory, none), TTLs, timeouts, breaker
  - retrain: schedule (daily, weekly, monthly, cron), trainer command
  - events: NATS or in-memory transport, topics, activity log
  - security: CORS origins and rate limits

# Environment Variables

A selection of the mapped variables:

  - HTTP_HOST, HTTP_PORT
  - LOG_LEVEL, LOG_FORMAT
  - ALPHA, BETA, NEIGHBORS, DEFAULT_TOP_N, TRENDING_WINDOW_DAYS
  - ARTIFACTS_DIR, ARCHIVE_PATH, ARCHIVE_RETENTION
  - CACHE_BACKEND, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
  - CACHE_PERSONALIZED_TTL, CACHE_ANONYMOUS_TTL, CACHE_TRENDING_TTL
  - RETRAIN_ENABLED, RETRAIN_SCHEDULE, RETRAIN_HOUR, RETRAIN_MINUTE,
    RETRAIN_DAY, RETRAIN_CRON, RETRAIN_ON_START, RETRAIN_COMMAND
  - EVENTS_ENABLED, NATS_URL, NATS_EMBEDDED, ACTIVITY_LOG_PATH
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW

Example:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	svc := recommend.NewService(store, resultCache, cfg.RecommendConfig(), logger)
*/
package config
