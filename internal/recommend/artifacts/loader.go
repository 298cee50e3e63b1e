// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/metrics"
	"github.com/tomtom215/newsxpress/internal/recommend"
)

// DirLoader reads an artifact set from a snapshot directory.
type DirLoader struct {
	dir    string
	logger zerolog.Logger
}

var _ recommend.Loader = (*DirLoader)(nil)

// NewDirLoader creates a loader for dir.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDirLoader(dir string, logger zerolog.Logger) *DirLoader {
	return &DirLoader{
		dir:    dir,
		logger: logger.With().Str("component", "artifact-loader").Str("dir", dir).Logger(),
	}
}

// Dir returns the snapshot directory.
func (l *DirLoader) Dir() string { return l.dir }

// Load implements recommend.Loader.
func (l *DirLoader) Load(ctx context.Context) (a *recommend.Artifacts, err error) {
	defer func() { metrics.RecordSnapshotLoad("directory", err) }()

	a = &recommend.Artifacts{}

	var manifest Manifest
	if ok, err := l.readOptional(ManifestFile, &manifest); err != nil || !ok {
		manifest = Manifest{}
		l.logger.Warn().Msg("No usable manifest, generating a generation id")
	}
	a.Generation = manifest.Generation
	a.TrainedAt = manifest.TrainedAt
	if a.Generation == "" {
		a.Generation = uuid.New().String()
	}

	ok, err := l.read(ArticlesFile, &a.Articles)
	if err != nil {
		return nil, err
	}
	if !ok || len(a.Articles) == 0 {
		return nil, fmt.Errorf("%w: %s", recommend.ErrNoArticles, filepath.Join(l.dir, ArticlesFile))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.loadContent(a)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.loadCollaborative(a)

	if manifest.ContentTrained && a.ContentSimilarity == nil && a.ArticleIndex == nil {
		l.logger.Warn().Msg("Manifest reports a content model but no content files were found")
	}
	if manifest.CollaborativeTrained && a.UserSimilarity == nil {
		l.logger.Warn().Msg("Manifest reports a collaborative model but no user similarity was found")
	}

	l.logger.Info().
		Str("generation", a.Generation).
		Int("articles", len(a.Articles)).
		Int("users", len(a.UserIDs)).
		Msg("Artifacts loaded")
	return a, nil
}

// Files that are present always yield non-nil fields so that presence, not
// content, decides group completeness.
func (l *DirLoader) loadContent(a *recommend.Artifacts) {
	var index []recommend.IndexEntry
	if ok, _ := l.readOptional(ArticleIndexFile, &index); ok {
		a.ArticleIndex = nonNil(index)
	}
	var matrix [][]float64
	if ok, _ := l.readOptional(ContentSimilarityFile, &matrix); ok {
		a.ContentSimilarity = nonNil(matrix)
	}
}

func (l *DirLoader) loadCollaborative(a *recommend.Artifacts) {
	var users UserSimilarity
	if ok, _ := l.readOptional(UserSimilarityFile, &users); ok {
		a.UserIDs = nonNil(users.Users)
		a.UserSimilarity = nonNil(users.Matrix)
	}

	var features UserFeatures
	if ok, _ := l.readOptional(UserFeaturesFile, &features); ok {
		a.UserVocabulary = features.Vocabulary
		a.UserFeatures = features.rows()
		if a.UserFeatures == nil {
			a.UserFeatures = map[string][]float64{}
		}
	}

	var articles ArticleFeatures
	if ok, _ := l.readOptional(ArticleFeaturesFile, &articles); ok {
		a.ArticleVocabulary = articles.Vocabulary
		a.ArticleFeatureIDs = nonNil(articles.IDs)
		a.ArticleFeatures = nonNil(articles.Matrix)
	}
}

// read decodes name into v. A missing file reports false with no error.
func (l *DirLoader) read(name string, v interface{}) (bool, error) {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from the configured artifact directory
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// readOptional is read for files whose failure only disables a group.
func (l *DirLoader) readOptional(name string, v interface{}) (bool, error) {
	ok, err := l.read(name, v)
	if err != nil {
		l.logger.Warn().Err(err).Str("file", name).Msg("Ignoring unreadable artifact file")
		return false, err
	}
	return ok, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
