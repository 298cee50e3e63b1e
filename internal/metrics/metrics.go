// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsxpress_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_recommend_requests_total",
			Help: "Recommendation requests by method and outcome",
		},
		[]string{"method", "outcome"}, // outcome: served, empty, fallback
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsxpress_recommend_duration_seconds",
			Help:    "Time spent computing uncached recommendations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method"},
	)

	RecommendComponentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_recommend_component_failures_total",
			Help: "Scoring component failures recovered at the component boundary",
		},
		[]string{"component"},
	)

	// Result Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_cache_hits_total",
			Help: "Result cache hits",
		},
		[]string{"method"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_cache_misses_total",
			Help: "Result cache misses",
		},
		[]string{"method"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_cache_errors_total",
			Help: "Result cache backend errors, timeouts included",
		},
		[]string{"operation"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_cache_invalidated_keys_total",
			Help: "Keys removed by pattern invalidation",
		},
		[]string{"scope"}, // all, user, article
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsxpress_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Snapshot Metrics
	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_snapshot_loads_total",
			Help: "Snapshot load attempts by source and result",
		},
		[]string{"source", "result"}, // source: directory, archive
	)

	SnapshotArticles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsxpress_snapshot_articles",
			Help: "Articles in the active snapshot",
		},
	)

	SnapshotUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsxpress_snapshot_users",
			Help: "Users in the active snapshot",
		},
	)

	SnapshotPublishedAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsxpress_snapshot_published_timestamp_seconds",
			Help: "Unix time the active snapshot was published",
		},
	)

	SnapshotGroupAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "newsxpress_snapshot_group_available",
			Help: "Whether an artifact group is usable in the active snapshot (1) or not (0)",
		},
		[]string{"group"}, // content, collaborative
	)

	// Retraining Metrics
	RetrainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_retrain_runs_total",
			Help: "Retraining cycles by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	RetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsxpress_retrain_duration_seconds",
			Help:    "Duration of retraining cycles",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// Event Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_events_published_total",
			Help: "Events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_events_consumed_total",
			Help: "Events consumed by topic and result",
		},
		[]string{"topic", "result"},
	)

	ActivityTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsxpress_activity_tracked_total",
			Help: "Reader activity records accepted",
		},
		[]string{"activity_type"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records the outcome of one recommendation request.
func RecordRecommendation(method, outcome string) {
	RecommendRequests.WithLabelValues(method, outcome).Inc()
}

// RecordRecommendDuration records time spent computing an uncached result.
func RecordRecommendDuration(method string, duration time.Duration) {
	RecommendDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordComponentFailure counts a recovered scoring failure.
func RecordComponentFailure(component string) {
	RecommendComponentFailures.WithLabelValues(component).Inc()
}

// RecordCacheLookup records a cache hit or miss for method.
func RecordCacheLookup(method string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(method).Inc()
		return
	}
	CacheMisses.WithLabelValues(method).Inc()
}

// RecordCacheError counts a failed backend operation.
func RecordCacheError(operation string) {
	CacheErrors.WithLabelValues(operation).Inc()
}

// RecordCacheInvalidation counts keys dropped by an invalidation of the given scope.
func RecordCacheInvalidation(scope string, removed int) {
	CacheInvalidations.WithLabelValues(scope).Add(float64(removed))
}

// RecordBreakerState records a circuit breaker state transition.
func RecordBreakerState(name string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordSnapshotLoad records a snapshot load attempt.
func RecordSnapshotLoad(source string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SnapshotLoads.WithLabelValues(source, result).Inc()
}

// RecordSnapshotPublished updates the gauges describing the active snapshot.
func RecordSnapshotPublished(articles, users int, content, collaborative bool, at time.Time) {
	SnapshotArticles.Set(float64(articles))
	SnapshotUsers.Set(float64(users))
	SnapshotPublishedAt.Set(float64(at.Unix()))
	SnapshotGroupAvailable.WithLabelValues("content").Set(boolToFloat(content))
	SnapshotGroupAvailable.WithLabelValues("collaborative").Set(boolToFloat(collaborative))
}

// RecordRetrain records a finished retraining cycle.
func RecordRetrain(trigger string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	RetrainRuns.WithLabelValues(trigger, result).Inc()
	RetrainDuration.Observe(duration.Seconds())
}

// RecordEventPublished records a publish attempt on topic.
func RecordEventPublished(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// RecordEventConsumed records handling of a consumed message.
func RecordEventConsumed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsConsumed.WithLabelValues(topic, result).Inc()
}

// RecordActivity counts an accepted activity record.
func RecordActivity(activityType string) {
	ActivityTracked.WithLabelValues(activityType).Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
