// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"fmt"
	"time"
)

// Config contains the serving parameters for the recommendation core.
type Config struct {
	// Alpha weights the collaborative score in hybrid fusion.
	// Default: 0.6.
	Alpha float64 `json:"alpha"`

	// Beta weights the content score in hybrid fusion.
	// Alpha and Beta are not normalized against each other.
	// Default: 0.4.
	Beta float64 `json:"beta"`

	// Neighbors is the number of nearest users aggregated by the
	// collaborative scorer. Default: 5.
	Neighbors int `json:"neighbors"`

	// DefaultTopN is used when a request does not ask for a size.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps any requested size.
	MaxTopN int `json:"max_top_n"`

	// TrendingWindowDays is the default trending publication window.
	TrendingWindowDays int `json:"trending_window_days"`

	// PersonalizedTTL applies to collaborative and hybrid results.
	PersonalizedTTL time.Duration `json:"personalized_ttl"`

	// AnonymousTTL applies to content results.
	AnonymousTTL time.Duration `json:"anonymous_ttl"`

	// TrendingTTL applies to trending results.
	TrendingTTL time.Duration `json:"trending_ttl"`
}

// DefaultConfig returns the serving defaults.
func DefaultConfig() Config {
	return Config{
		Alpha:              0.6,
		Beta:               0.4,
		Neighbors:          5,
		DefaultTopN:        10,
		MaxTopN:            100,
		TrendingWindowDays: 7,
		PersonalizedTTL:    15 * time.Minute,
		AnonymousTTL:       30 * time.Minute,
		TrendingTTL:        30 * time.Minute,
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocritic // value receiver keeps Config usable as a plain value
func (c Config) Validate() error {
	if c.Alpha < 0 {
		return fmt.Errorf("alpha must be non-negative, got %f", c.Alpha)
	}
	if c.Beta < 0 {
		return fmt.Errorf("beta must be non-negative, got %f", c.Beta)
	}
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be positive, got %d", c.DefaultTopN)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("max_top_n must be >= default_top_n, got %d < %d", c.MaxTopN, c.DefaultTopN)
	}
	if c.TrendingWindowDays < 1 {
		return fmt.Errorf("trending_window_days must be positive, got %d", c.TrendingWindowDays)
	}
	if c.PersonalizedTTL <= 0 {
		return fmt.Errorf("personalized_ttl must be positive, got %v", c.PersonalizedTTL)
	}
	if c.AnonymousTTL < c.PersonalizedTTL {
		return fmt.Errorf("anonymous_ttl must be >= personalized_ttl, got %v < %v", c.AnonymousTTL, c.PersonalizedTTL)
	}
	if c.TrendingTTL < c.PersonalizedTTL {
		return fmt.Errorf("trending_ttl must be >= personalized_ttl, got %v < %v", c.TrendingTTL, c.PersonalizedTTL)
	}
	return nil
}

// ttlFor returns the cache lifetime for results of method m.
//
//nolint:gocritic // value receiver keeps Config usable as a plain value
func (c Config) ttlFor(m Method) time.Duration {
	switch {
	case m == MethodTrending:
		return c.TrendingTTL
	case m.Personalized():
		return c.PersonalizedTTL
	default:
		return c.AnonymousTTL
	}
}

// clampTopN resolves a requested size against the defaults.
//
//nolint:gocritic // value receiver keeps Config usable as a plain value
func (c Config) clampTopN(n int) int {
	if n <= 0 {
		return c.DefaultTopN
	}
	if n > c.MaxTopN {
		return c.MaxTopN
	}
	return n
}
