// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package metrics declares the Prometheus collectors exported by the
recommendation service.

Collectors are registered with the default registry through promauto and
are exposed at /metrics. Callers use the Record* helpers rather than the
vectors directly so label sets stay consistent:

	metrics.RecordCacheLookup("hybrid", hit)
	metrics.RecordSnapshotLoad("directory", err)

# Groups

  - newsxpress_api_*: HTTP throughput and latency per route
  - newsxpress_recommend_*: requests, outcomes, compute latency, recovered failures
  - newsxpress_cache_*: hits, misses, backend errors, invalidated keys
  - newsxpress_snapshot_*: load attempts and the shape of the active generation
  - newsxpress_retrain_*: retraining cycles by trigger
  - newsxpress_events_*, newsxpress_activity_*: event traffic
*/
package metrics
