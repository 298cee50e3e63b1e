// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package api serves the recommender over HTTP using the Chi router.

Routes:

	GET      /health
	GET      /metrics
	GET      /api/v1/health/live
	GET      /api/v1/health/ready
	GET|POST /api/v1/recommendations
	GET      /api/v1/recommendations/similar/{articleID}
	GET|POST /api/v1/recommendations/personalized/{userID}
	GET      /api/v1/recommendations/trending
	POST     /api/v1/track
	POST     /api/v1/cache/clear
	GET      /api/v1/cache/stats
	GET      /api/v1/models/info
	POST     /api/v1/models/reload

Every JSON response uses the same envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "meta": {...}}

Recommendation lists render each score under a method-specific key
(similarity_score, relevance_score, hybrid_score); trending items carry no
score. A request the chosen method cannot serve (unknown method, missing
user or article, no results) is answered from trending with
data.fallback=true rather than with an error.

Read routes share the general rate limit; cache and model management routes
have a stricter one.
*/
package api
