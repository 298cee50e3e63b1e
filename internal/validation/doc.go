// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package validation validates API request structs with go-playground/validator.

A single validator instance is shared (it caches struct metadata). Errors
name fields by their json or query tag, so messages match what clients send:

	type TrackRequest struct {
	    ArticleID    string `json:"article_id" validate:"required,entityid"`
	    ActivityType string `json:"activity_type" validate:"required,oneof=view click share like"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    // 400 with apiErr.Code == "VALIDATION_ERROR"
	}

Custom tags:

  - entityid: at most MaxIDLength runes, no whitespace or control characters
*/
package validation
