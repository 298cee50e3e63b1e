// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/metrics"
)

// recoverComponent turns a panic inside a scoring component into an empty
// result for that component. Use as: defer recoverComponent(&out, logger, "content").
func recoverComponent(out *[]Recommendation, logger *zerolog.Logger, component string) {
	r := recover()
	if r == nil {
		return
	}
	*out = nil
	metrics.RecordComponentFailure(component)
	logger.Error().Str("component", component).Str("panic", fmt.Sprint(r)).
		Msg("Scoring failed, returning empty result for this component")
}

// scored is a candidate before metadata is attached.
type scored struct {
	id    string
	score float64
}
