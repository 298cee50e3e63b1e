// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package supervisor runs the recommender's long-lived services under a suture
v4 supervisor tree.

The tree has three layers so a failure in one does not take down another:

	RootSupervisor ("newsxpress")
	├── ModelSupervisor ("model-layer")
	│   └── RetrainService (if RETRAIN_ENABLED)
	├── MessagingSupervisor ("messaging-layer")
	│   └── ReloadListener (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with backoff. Supervisor events are logged
through sutureslog onto the zerolog-backed slog handler from the logging
package.

Services implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Serve returns when ctx is canceled. Returning suture.ErrDoNotRestart stops
the service for good; any other error triggers a restart.
*/
package supervisor
