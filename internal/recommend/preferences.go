// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package recommend

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// PreferenceKind tells which form a user preference arrived in.
type PreferenceKind int

const (
	// PreferenceAbsent is a missing or null preference.
	PreferenceAbsent PreferenceKind = iota
	// PreferenceRaw is a single string such as `{sports,"Politics"}` or "a, b".
	PreferenceRaw
	// PreferenceList is an already split sequence of strings.
	PreferenceList
)

// Preference is a user preference value (actor, place or topic) in any of the
// forms upstream sources produce. The zero value is absent.
type Preference struct {
	kind PreferenceKind
	raw  string
	list []string
}

// NoPreference returns an absent preference.
func NoPreference() Preference { return Preference{} }

// RawPreference wraps a raw, possibly bracketed, comma separated string.
func RawPreference(s string) Preference {
	return Preference{kind: PreferenceRaw, raw: s}
}

// ListPreference wraps a sequence of tags.
func ListPreference(items ...string) Preference {
	return Preference{kind: PreferenceList, list: items}
}

// Kind returns the preference form.
func (p Preference) Kind() PreferenceKind { return p.kind }

// UnmarshalJSON accepts null, a string, or an array of strings.
func (p *Preference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = NoPreference()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = RawPreference(s)
	case data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("preference list: %w", err)
		}
		*p = ListPreference(items...)
	default:
		return fmt.Errorf("preference must be null, a string or a list of strings, got %s", data)
	}
	return nil
}

// MarshalJSON writes absent as null, raw as a string and lists as arrays.
func (p Preference) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PreferenceRaw:
		return json.Marshal(p.raw)
	case PreferenceList:
		return json.Marshal(p.list)
	default:
		return []byte("null"), nil
	}
}

// NormalizePreferences turns a preference into an ordered set of lowercase
// tags. Raw strings lose their surrounding {} [] and quote characters and are
// split on commas; list items are used as given. Every tag is trimmed of
// whitespace and quotes, lowercased, and dropped when empty. Duplicates keep
// their first position.
func NormalizePreferences(p Preference) []string {
	var items []string
	switch p.kind {
	case PreferenceRaw:
		items = strings.Split(strings.Trim(p.raw, `{}[]" `), ",")
	case PreferenceList:
		items = p.list
	default:
		return []string{}
	}

	tags := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		tag := strings.ToLower(strings.Trim(strings.TrimSpace(item), `"'`))
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// MergePreferences normalizes each preference and concatenates the results
// into one ordered set.
func MergePreferences(prefs ...Preference) []string {
	var merged []string
	seen := make(map[string]struct{})
	for _, p := range prefs {
		for _, tag := range NormalizePreferences(p) {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			merged = append(merged, tag)
		}
	}
	if merged == nil {
		return []string{}
	}
	return merged
}

// EncodeTags binarizes tags against vocabulary: position i is 1 when
// vocabulary[i] is among tags. Tags outside the vocabulary are ignored.
func EncodeTags(tags, vocabulary []string) []float64 {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	vec := make([]float64, len(vocabulary))
	for i, term := range vocabulary {
		if _, ok := set[term]; ok {
			vec[i] = 1
		}
	}
	return vec
}
