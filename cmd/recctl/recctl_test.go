// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/newsxpress/internal/recommend"
	"github.com/tomtom215/newsxpress/internal/recommend/artifacts"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o600))
}

func writeArtifacts(t *testing.T, withMatrix bool) string {
	t.Helper()
	dir := t.TempDir()
	now := time.Now().UTC()
	writeFile(t, dir, artifacts.ManifestFile, artifacts.Manifest{Generation: "g-7", TrainedAt: now, ContentTrained: true})
	writeFile(t, dir, artifacts.ArticlesFile, []recommend.Article{
		{ID: "a", Title: "Election", Topic: "politics", PublishedAt: now},
		{ID: "b", Title: "Derby", Topic: "sports", PublishedAt: now},
	})
	writeFile(t, dir, artifacts.ArticleIndexFile, []recommend.IndexEntry{{ID: "a", Row: 0}, {ID: "b", Row: 1}})
	if withMatrix {
		writeFile(t, dir, artifacts.ContentSimilarityFile, [][]float64{{1, 0.3}, {0.3, 1}})
	}
	return dir
}

func TestValidate_Complete(t *testing.T) {
	out, err := execute(t, "validate", writeArtifacts(t, true))
	require.NoError(t, err)
	assert.Contains(t, out, "generation:    g-7")
	assert.Contains(t, out, "articles:      2")
	assert.Contains(t, out, "content:       available")
	assert.Contains(t, out, "collaborative: absent")
}

func TestValidate_PartialGroupFails(t *testing.T) {
	out, err := execute(t, "validate", "--json", writeArtifacts(t, false))
	require.ErrorIs(t, err, errRejectedGroups)

	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "g-7", report.Generation)
	assert.False(t, report.Content)
	assert.Contains(t, report.Rejected, recommend.GroupContent)
}

func TestValidate_EmptyDir(t *testing.T) {
	_, err := execute(t, "validate", t.TempDir())
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bracketed", []string{"normalize", `{Sports,"Politics",sports}`}, "sports\npolitics\n"},
		{"comma list", []string{"normalize", "Kathmandu, Pokhara"}, "kathmandu\npokhara\n"},
		{"json array", []string{"normalize", "--json", `["Health"," ECONOMY "]`}, "health\neconomy\n"},
		{"json null", []string{"normalize", "--json", "null"}, "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNormalize_BadJSON(t *testing.T) {
	_, err := execute(t, "normalize", "--json", "42")
	assert.Error(t, err)
}

func TestInvalidationPatterns(t *testing.T) {
	_, err := invalidationPatterns("", "", false)
	assert.Error(t, err)

	got, err := invalidationPatterns("u1", "a9", false)
	require.NoError(t, err)
	assert.Equal(t, []string{recommend.UserPattern("u1"), recommend.ArticlePattern("a9")}, got)

	got, err = invalidationPatterns("u1", "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{recommend.AllPattern()}, got)
}
