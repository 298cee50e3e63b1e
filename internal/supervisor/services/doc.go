// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package services adapts recommender components to suture.Service.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine and
context cancellation triggers Shutdown with a bounded timeout.

RetrainService drives the retraining cycle on a cron schedule (and
optionally once at startup): run the trainer command, reload the artifact
snapshot, clear the result cache once, then announce the new generation on
the models.trained topic. A failed cycle is logged and counted; the active
snapshot and the cache are left as they were and the next tick tries again.
Cycles never overlap.

The events.ReloadListener already implements suture.Service and is added to
the tree directly.
*/
package services
