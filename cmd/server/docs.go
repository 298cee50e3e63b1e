// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

// OpenAPI general info, read by swag when regenerating /docs.
//
// @title NewsXpress Recommender API
// @version 1.0
// @description Hybrid news article recommendations: trending, content similarity, collaborative filtering and their blend.
// @description
// @description Unavailable methods fall back to trending and set "fallback" in the response.
// @description Read routes share the general rate limit; cache and model administration use a stricter one.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/newsxpress/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
// @schemes http https
//
//go:generate swag init -g docs.go -d ./,../../internal/api -o ../../docs
