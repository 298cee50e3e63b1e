// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	// ErrNoArticles is returned when an artifact set has no article metadata.
	ErrNoArticles = errors.New("artifact set has no article metadata")

	// ErrPartialArtifacts marks an artifact group that is only partly present.
	ErrPartialArtifacts = errors.New("partial artifact group")

	// ErrInconsistentArtifacts marks an artifact group whose parts disagree
	// (shape, index range, vocabulary).
	ErrInconsistentArtifacts = errors.New("inconsistent artifact group")
)

// Artifact group names.
const (
	GroupContent       = "content"
	GroupCollaborative = "collaborative"
)

// IndexEntry maps an article id to a row of the content similarity matrix.
type IndexEntry struct {
	ID  string `json:"id"`
	Row int    `json:"row"`
}

// Artifacts is a raw artifact set as produced by the trainer. Nil fields are
// absent artifacts.
type Artifacts struct {
	Generation string    `json:"generation"`
	TrainedAt  time.Time `json:"trained_at"`

	// Articles is the metadata table in trainer row order.
	Articles []Article `json:"articles"`

	// Content group.
	ArticleIndex      []IndexEntry `json:"article_index"`
	ContentSimilarity [][]float64  `json:"content_similarity"`

	// Collaborative group.
	UserIDs           []string             `json:"user_ids"`
	UserSimilarity    [][]float64          `json:"user_similarity"`
	UserVocabulary    []string             `json:"user_vocabulary"`
	UserFeatures      map[string][]float64 `json:"user_features"`
	ArticleVocabulary []string             `json:"article_vocabulary"`
	ArticleFeatureIDs []string             `json:"article_feature_ids"`
	ArticleFeatures   [][]float64          `json:"article_features"`
}

func (a *Artifacts) hasContentParts() (index, matrix bool) {
	return a.ArticleIndex != nil, a.ContentSimilarity != nil
}

func (a *Artifacts) hasCollaborativeParts() (users, features, articles bool) {
	return a.UserSimilarity != nil || a.UserIDs != nil,
		a.UserFeatures != nil || a.UserVocabulary != nil,
		a.ArticleFeatures != nil || a.ArticleFeatureIDs != nil || a.ArticleVocabulary != nil
}

// GroupError records why an artifact group was rejected.
type GroupError struct {
	Group string
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("%s artifacts rejected: %v", e.Group, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}

type contentModel struct {
	index  map[string]int // article id -> matrix row
	colIDs []string       // matrix column -> article id ("" if unmapped)
	matrix [][]float64
}

type collaborativeModel struct {
	userIDs    []string // matrix order
	userIndex  map[string]int
	userSim    [][]float64
	features   map[string][]float64
	vocabulary []string
	articleIDs []string // feature table insertion order
	articleVec [][]float64
}

// Snapshot is one immutable generation of trained artifacts. A nil group
// model means that mode is unavailable and callers fall back to trending.
type Snapshot struct {
	generation string
	trainedAt  time.Time
	builtAt    time.Time

	articles  []Article
	articleAt map[string]int

	content       *contentModel
	collaborative *collaborativeModel

	rejected []*GroupError
}

// NewSnapshot validates an artifact set and builds a Snapshot from it.
//
// Article metadata is required. Each artifact group is either complete and
// consistent, or it is rejected and left out of the snapshot; rejections are
// reported by Snapshot.Rejected rather than failing the build. Duplicate
// article ids collapse to their first occurrence.
func NewSnapshot(a *Artifacts) (*Snapshot, error) {
	if a == nil || len(a.Articles) == 0 {
		return nil, ErrNoArticles
	}

	s := &Snapshot{
		generation: a.Generation,
		trainedAt:  a.TrainedAt,
		builtAt:    time.Now(),
		articleAt:  make(map[string]int, len(a.Articles)),
	}

	s.articles = make([]Article, 0, len(a.Articles))
	for _, art := range a.Articles {
		if art.ID == "" {
			continue
		}
		if _, dup := s.articleAt[art.ID]; dup {
			continue
		}
		s.articleAt[art.ID] = len(s.articles)
		s.articles = append(s.articles, art)
	}
	if len(s.articles) == 0 {
		return nil, ErrNoArticles
	}

	if content, err := buildContent(a); err != nil {
		s.rejected = append(s.rejected, &GroupError{Group: GroupContent, Err: err})
	} else {
		s.content = content
	}

	if collab, err := buildCollaborative(a); err != nil {
		s.rejected = append(s.rejected, &GroupError{Group: GroupCollaborative, Err: err})
	} else {
		s.collaborative = collab
	}

	return s, nil
}

// buildContent returns (nil, nil) when the group is entirely absent.
func buildContent(a *Artifacts) (*contentModel, error) {
	hasIndex, hasMatrix := a.hasContentParts()
	switch {
	case !hasIndex && !hasMatrix:
		return nil, nil
	case !hasIndex:
		return nil, fmt.Errorf("%w: similarity matrix without article index", ErrPartialArtifacts)
	case !hasMatrix:
		return nil, fmt.Errorf("%w: article index without similarity matrix", ErrPartialArtifacts)
	}

	n := len(a.ContentSimilarity)
	for i, row := range a.ContentSimilarity {
		if len(row) != n {
			return nil, fmt.Errorf("%w: similarity row %d has %d columns, want %d", ErrInconsistentArtifacts, i, len(row), n)
		}
	}

	m := &contentModel{
		index:  make(map[string]int, len(a.ArticleIndex)),
		colIDs: make([]string, n),
		matrix: a.ContentSimilarity,
	}
	for _, e := range a.ArticleIndex {
		if e.ID == "" {
			continue
		}
		if _, dup := m.index[e.ID]; dup {
			continue
		}
		if e.Row < 0 || e.Row >= n {
			return nil, fmt.Errorf("%w: article %q indexed at row %d outside [0,%d)", ErrInconsistentArtifacts, e.ID, e.Row, n)
		}
		if m.colIDs[e.Row] != "" {
			return nil, fmt.Errorf("%w: row %d indexed by both %q and %q", ErrInconsistentArtifacts, e.Row, m.colIDs[e.Row], e.ID)
		}
		m.index[e.ID] = e.Row
		m.colIDs[e.Row] = e.ID
	}
	return m, nil
}

// buildCollaborative returns (nil, nil) when the group is entirely absent.
func buildCollaborative(a *Artifacts) (*collaborativeModel, error) {
	hasUsers, hasFeatures, hasArticles := a.hasCollaborativeParts()
	if !hasUsers && !hasFeatures && !hasArticles {
		return nil, nil
	}
	if !hasUsers || !hasFeatures || !hasArticles {
		var missing []string
		if !hasUsers {
			missing = append(missing, "user similarity")
		}
		if !hasFeatures {
			missing = append(missing, "user features")
		}
		if !hasArticles {
			missing = append(missing, "article features")
		}
		return nil, fmt.Errorf("%w: missing %v", ErrPartialArtifacts, missing)
	}

	m := len(a.UserSimilarity)
	if len(a.UserIDs) != m {
		return nil, fmt.Errorf("%w: %d user ids for a %d-row similarity matrix", ErrInconsistentArtifacts, len(a.UserIDs), m)
	}
	userIndex := make(map[string]int, m)
	for i, id := range a.UserIDs {
		if _, dup := userIndex[id]; dup {
			return nil, fmt.Errorf("%w: duplicate user id %q", ErrInconsistentArtifacts, id)
		}
		userIndex[id] = i
		if len(a.UserSimilarity[i]) != m {
			return nil, fmt.Errorf("%w: user similarity row %d has %d columns, want %d", ErrInconsistentArtifacts, i, len(a.UserSimilarity[i]), m)
		}
	}

	if len(a.UserVocabulary) == 0 {
		return nil, fmt.Errorf("%w: empty feature vocabulary", ErrInconsistentArtifacts)
	}
	if !slices.Equal(a.UserVocabulary, a.ArticleVocabulary) {
		return nil, fmt.Errorf("%w: user and article feature tables use different vocabularies", ErrInconsistentArtifacts)
	}
	width := len(a.UserVocabulary)

	for id, row := range a.UserFeatures {
		if len(row) != width {
			return nil, fmt.Errorf("%w: user %q has %d features, want %d", ErrInconsistentArtifacts, id, len(row), width)
		}
	}

	if len(a.ArticleFeatureIDs) != len(a.ArticleFeatures) {
		return nil, fmt.Errorf("%w: %d article feature ids for %d rows", ErrInconsistentArtifacts, len(a.ArticleFeatureIDs), len(a.ArticleFeatures))
	}
	seen := make(map[string]struct{}, len(a.ArticleFeatureIDs))
	ids := make([]string, 0, len(a.ArticleFeatureIDs))
	vecs := make([][]float64, 0, len(a.ArticleFeatures))
	for i, id := range a.ArticleFeatureIDs {
		if len(a.ArticleFeatures[i]) != width {
			return nil, fmt.Errorf("%w: article %q has %d features, want %d", ErrInconsistentArtifacts, id, len(a.ArticleFeatures[i]), width)
		}
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		vecs = append(vecs, a.ArticleFeatures[i])
	}

	return &collaborativeModel{
		userIDs:    a.UserIDs,
		userIndex:  userIndex,
		userSim:    a.UserSimilarity,
		features:   a.UserFeatures,
		vocabulary: a.UserVocabulary,
		articleIDs: ids,
		articleVec: vecs,
	}, nil
}

// Generation returns the generation id.
func (s *Snapshot) Generation() string { return s.generation }

// TrainedAt returns when the trainer produced the artifacts.
func (s *Snapshot) TrainedAt() time.Time { return s.trainedAt }

// BuiltAt returns when this process built the snapshot.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// NumArticles returns the number of articles with metadata.
func (s *Snapshot) NumArticles() int { return len(s.articles) }

// NumUsers returns the number of users known to the collaborative model.
func (s *Snapshot) NumUsers() int {
	if s.collaborative == nil {
		return 0
	}
	return len(s.collaborative.userIndex)
}

// HasContent reports whether content similarity is available.
func (s *Snapshot) HasContent() bool { return s != nil && s.content != nil }

// HasCollaborative reports whether collaborative scoring is available.
func (s *Snapshot) HasCollaborative() bool { return s != nil && s.collaborative != nil }

// Rejected returns the artifact groups dropped while building.
func (s *Snapshot) Rejected() []*GroupError { return s.rejected }

// Article returns metadata for id.
func (s *Snapshot) Article(id string) (Article, bool) {
	i, ok := s.articleAt[id]
	if !ok {
		return Article{}, false
	}
	return s.articles[i], true
}
