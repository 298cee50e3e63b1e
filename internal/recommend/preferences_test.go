// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePreferences(t *testing.T) {
	tests := []struct {
		name string
		in   Preference
		want []string
	}{
		{name: "absent", in: NoPreference(), want: []string{}},
		{name: "zero value", in: Preference{}, want: []string{}},
		{name: "braced raw", in: RawPreference(`{Sports,"Politics" , sports}`), want: []string{"sports", "politics"}},
		{name: "bracketed raw", in: RawPreference(`["Kathmandu","Pokhara"]`), want: []string{"kathmandu", "pokhara"}},
		{name: "plain raw", in: RawPreference("Economy"), want: []string{"economy"}},
		{name: "empty raw", in: RawPreference(""), want: []string{}},
		{name: "only separators", in: RawPreference("{ , ,}"), want: []string{}},
		{name: "list", in: ListPreference(" Cricket ", "cricket", "", "'Football'"), want: []string{"cricket", "football"}},
		{name: "empty list", in: ListPreference(), want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePreferences(tt.in))
		})
	}
}

func TestPreference_UnmarshalJSON(t *testing.T) {
	var profile struct {
		Actor Preference `json:"actor"`
		Place Preference `json:"place"`
		Topic Preference `json:"topic"`
	}
	raw := `{"actor": null, "place": "{Kathmandu,Lalitpur}", "topic": ["Sports", "Politics"]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &profile))

	assert.Equal(t, PreferenceAbsent, profile.Actor.Kind())
	assert.Equal(t, PreferenceRaw, profile.Place.Kind())
	assert.Equal(t, PreferenceList, profile.Topic.Kind())
	assert.Equal(t, []string{"kathmandu", "lalitpur", "sports", "politics"},
		MergePreferences(profile.Actor, profile.Place, profile.Topic))

	var bad Preference
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestPreference_MarshalJSON(t *testing.T) {
	for _, tt := range []struct {
		in   Preference
		want string
	}{
		{NoPreference(), `null`},
		{RawPreference("a,b"), `"a,b"`},
		{ListPreference("a", "b"), `["a","b"]`},
	} {
		raw, err := json.Marshal(tt.in)
		require.NoError(t, err)
		assert.JSONEq(t, tt.want, string(raw))
	}
}

func TestMergePreferences(t *testing.T) {
	got := MergePreferences(RawPreference("a, b"), ListPreference("B", "c"), NoPreference())
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []string{}, MergePreferences())
}

func TestEncodeTags(t *testing.T) {
	vocab := []string{"politics", "sports", "kathmandu"}
	assert.Equal(t, []float64{0, 1, 1}, EncodeTags([]string{"kathmandu", "sports", "unknown"}, vocab))
	assert.Equal(t, []float64{0, 0, 0}, EncodeTags(nil, vocab))
}
