// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package events carries the recommender's two message flows over Watermill.

Topics:

  - newsxpress.models.trained: published after a retrain cycle (or by an
    external trainer, or by recctl reload). A ReloadListener consumes it and
    performs a snapshot reload followed by a single full cache invalidation.
  - newsxpress.activity: user interactions recorded through POST /track.
    The ActivityTracker appends each one to a JSONL log and publishes it.

Transports:

  - "nats": core NATS subjects through watermill-nats. The server may be an
    external one at Config.URL, or an EmbeddedServer started in process for
    single-node deployments.
  - "memory": Watermill's in-process gochannel pub/sub. Used in tests and
    when no broker is wanted.

Publishing is wrapped in a circuit breaker so a broker outage never blocks
request handling; publish failures are logged and counted, not returned to
HTTP clients.
*/
package events
