// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Method identifies a recommendation strategy.
type Method string

const (
	// MethodContent ranks articles similar to a given article.
	MethodContent Method = "content"
	// MethodCollaborative ranks articles liked by similar users.
	MethodCollaborative Method = "collaborative"
	// MethodHybrid blends collaborative and content scores.
	MethodHybrid Method = "hybrid"
	// MethodTrending ranks the newest articles without personalization.
	MethodTrending Method = "trending"
)

// ParseMethod parses a method name. The empty string selects hybrid.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MethodHybrid, nil
	case MethodContent, MethodCollaborative, MethodHybrid, MethodTrending:
		return m, nil
	case "similar":
		return MethodContent, nil
	default:
		return "", fmt.Errorf("unknown recommendation method %q", s)
	}
}

// ScoreField is the JSON field carrying the score for results of this method.
// Trending results carry no score.
func (m Method) ScoreField() string {
	switch m {
	case MethodContent:
		return "similarity_score"
	case MethodCollaborative:
		return "relevance_score"
	case MethodHybrid:
		return "hybrid_score"
	default:
		return ""
	}
}

// Personalized reports whether results depend on a user id.
func (m Method) Personalized() bool {
	return m == MethodCollaborative || m == MethodHybrid
}

// Article is the immutable per-article metadata carried by a snapshot.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Topic       string    `json:"topic,omitempty"`
	Place       string    `json:"place,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Recommendation is a scored article. It marshals to the article fields plus
// one score field named after the method (see Method.ScoreField).
type Recommendation struct {
	Article
	Score  float64
	Method Method
}

// articleJSON drops Article's methods so the embedded encoding is plain.
type articleJSON Article

// MarshalJSON implements json.Marshaler.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(articleJSON(r.Article))
	if err != nil {
		return nil, err
	}
	field := r.Method.ScoreField()
	if field == "" {
		return base, nil
	}
	score, err := json.Marshal(r.Score)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(base)+len(field)+len(score)+4)
	out = append(out, base[:len(base)-1]...)
	out = append(out, ',', '"')
	out = append(out, field...)
	out = append(out, '"', ':')
	out = append(out, score...)
	out = append(out, '}')
	return out, nil
}

// UnmarshalJSON implements json.Unmarshaler. The method is recovered from the
// score field present; an object without one is a trending result.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var a articleJSON
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var scores struct {
		Similarity *float64 `json:"similarity_score"`
		Relevance  *float64 `json:"relevance_score"`
		Hybrid     *float64 `json:"hybrid_score"`
	}
	if err := json.Unmarshal(data, &scores); err != nil {
		return err
	}

	r.Article = Article(a)
	r.Score = 0
	switch {
	case scores.Similarity != nil:
		r.Method, r.Score = MethodContent, *scores.Similarity
	case scores.Relevance != nil:
		r.Method, r.Score = MethodCollaborative, *scores.Relevance
	case scores.Hybrid != nil:
		r.Method, r.Score = MethodHybrid, *scores.Hybrid
	default:
		r.Method = MethodTrending
	}
	return nil
}

// IDSet is a set of article ids, used for exclusions.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, ignoring empty strings.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
