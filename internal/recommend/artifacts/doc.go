// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

/*
Package artifacts loads trained recommendation artifacts from disk and keeps
an archive of the last good generations.

# Directory Layout

The offline trainer writes one directory per run:

	manifest.json            generation, trained_at, counts, trained flags
	articles.json            article metadata in row order
	article_index.json       [{"id": "...", "row": 0}, ...]
	content_similarity.json  square item-item matrix
	user_similarity.json     {"users": [...], "matrix": [[...]]}
	user_features.json       {"vocabulary": [...], "rows": {user: [...]}}
	                         or {"vocabulary": [...], "profiles": {user: {actor, place, topic}}}
	article_features.json    {"vocabulary": [...], "ids": [...], "matrix": [[...]]}

Only articles.json is required. Missing files leave their group absent;
a group with some files missing is rejected later by recommend.NewSnapshot.
Unreadable group files are logged and treated as missing.

# Archive

Archive stores successfully loaded artifact sets in BadgerDB keyed by save
time, keeps the newest N, and tracks the current one. ArchivingLoader uses
it so a process that starts while the trainer output is broken still serves
the last good generation.
*/
package artifacts
