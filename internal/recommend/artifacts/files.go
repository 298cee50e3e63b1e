// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package artifacts

import (
	"time"

	"github.com/tomtom215/newsxpress/internal/recommend"
)

// Artifact file names inside a snapshot directory.
const (
	ManifestFile          = "manifest.json"
	ArticlesFile          = "articles.json"
	ArticleIndexFile      = "article_index.json"
	ContentSimilarityFile = "content_similarity.json"
	UserSimilarityFile    = "user_similarity.json"
	UserFeaturesFile      = "user_features.json"
	ArticleFeaturesFile   = "article_features.json"
)

// Manifest describes one trainer run.
type Manifest struct {
	Generation           string    `json:"generation"`
	TrainedAt            time.Time `json:"trained_at"`
	NumArticles          int       `json:"num_articles"`
	NumUsers             int       `json:"num_users"`
	ContentTrained       bool      `json:"content_trained"`
	CollaborativeTrained bool      `json:"collaborative_trained"`
}

// UserSimilarity is the user_similarity.json document.
type UserSimilarity struct {
	Users  []string    `json:"users"`
	Matrix [][]float64 `json:"matrix"`
}

// Profile holds a user's raw preferences.
type Profile struct {
	Actor recommend.Preference `json:"actor"`
	Place recommend.Preference `json:"place"`
	Topic recommend.Preference `json:"topic"`
}

// UserFeatures is the user_features.json document. Exactly one of Rows or
// Profiles is expected; Rows wins when both are present.
type UserFeatures struct {
	Vocabulary []string             `json:"vocabulary"`
	Rows       map[string][]float64 `json:"rows,omitempty"`
	Profiles   map[string]Profile   `json:"profiles,omitempty"`
}

// ArticleFeatures is the article_features.json document.
type ArticleFeatures struct {
	Vocabulary []string    `json:"vocabulary"`
	IDs        []string    `json:"ids"`
	Matrix     [][]float64 `json:"matrix"`
}

// rows returns the binarized feature rows, encoding profiles against the
// vocabulary when no rows were supplied.
func (u *UserFeatures) rows() map[string][]float64 {
	if u.Rows != nil {
		return u.Rows
	}
	if u.Profiles == nil {
		return nil
	}
	rows := make(map[string][]float64, len(u.Profiles))
	for user, p := range u.Profiles {
		tags := recommend.MergePreferences(p.Actor, p.Place, p.Topic)
		rows[user] = recommend.EncodeTags(tags, u.Vocabulary)
	}
	return rows
}
