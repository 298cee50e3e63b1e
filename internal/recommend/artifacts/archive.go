// NewsXpress Recommender - Hybrid Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsxpress

package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/newsxpress/internal/metrics"
	"github.com/tomtom215/newsxpress/internal/recommend"
)

// ErrEmptyArchive is returned by Latest when nothing has been archived.
var ErrEmptyArchive = errors.New("artifact archive is empty")

// Key layout. Generation keys sort by save time.
const (
	prefixGeneration = "gen:"
	keyCurrent       = "current"
)

// Archive keeps the newest artifact sets in BadgerDB.
type Archive struct {
	db        *badger.DB
	retention int
	logger    zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// ArchiveConfig configures an Archive.
type ArchiveConfig struct {
	// Path is the BadgerDB directory. Empty keeps the archive in memory.
	Path string

	// Retention is how many generations to keep. Values below 1 keep one.
	Retention int

	// SyncWrites fsyncs every save.
	SyncWrites bool
}

// OpenArchive opens (or creates) the archive.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenArchive(cfg ArchiveConfig, logger zerolog.Logger) (*Archive, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Compression = options.Snappy
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open artifact archive: %w", err)
	}

	retention := cfg.Retention
	if retention < 1 {
		retention = 1
	}

	a := &Archive{
		db:        db,
		retention: retention,
		logger:    logger.With().Str("component", "artifact-archive").Logger(),
	}
	a.logger.Info().Str("path", cfg.Path).Int("retention", retention).Msg("Artifact archive opened")
	return a, nil
}

func generationKey(savedAt time.Time, generation string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", prefixGeneration, savedAt.UnixNano(), generation))
}

func generationFromKey(key []byte) string {
	rest := strings.TrimPrefix(string(key), prefixGeneration)
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		return rest[i+1:]
	}
	return rest
}

// Save stores artifacts as the current generation, replacing an earlier copy
// of the same generation, and prunes generations beyond the retention.
func (a *Archive) Save(ctx context.Context, artifacts *recommend.Artifacts) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(artifacts)
	if err != nil {
		return fmt.Errorf("encode artifacts: %w", err)
	}
	key := generationKey(time.Now(), artifacts.Generation)

	pruned := 0
	err = a.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		// Collect keys first; deletes happen after the iterator is closed.
		var existing [][]byte
		prefix := []byte(prefixGeneration)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			existing = append(existing, it.Item().KeyCopy(nil))
		}
		it.Close()

		var keep [][]byte
		for _, k := range existing {
			if generationFromKey(k) != artifacts.Generation {
				keep = append(keep, k)
				continue
			}
			if err := txn.Delete(k); err != nil {
				return err
			}
		}

		if err := txn.SetEntry(badger.NewEntry(key, data)); err != nil {
			return err
		}
		if err := txn.Set([]byte(keyCurrent), key); err != nil {
			return err
		}

		// keep is oldest first; the new key is the newest.
		for len(keep)+1 > a.retention {
			if err := txn.Delete(keep[0]); err != nil {
				return err
			}
			keep = keep[1:]
			pruned++
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("archive generation %s: %w", artifacts.Generation, err)
	}

	a.logger.Info().Str("generation", artifacts.Generation).Int("bytes", len(data)).
		Int("pruned", pruned).Msg("Artifacts archived")
	return nil
}

// Latest returns the current archived artifact set.
func (a *Archive) Latest(ctx context.Context) (*recommend.Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var artifacts recommend.Artifacts
	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyCurrent))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrEmptyArchive
		}
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err = txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: current generation %q missing", ErrEmptyArchive, generationFromKey(key))
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &artifacts)
		})
	})
	if err != nil {
		return nil, err
	}
	return &artifacts, nil
}

// Generations lists archived generation ids, newest first.
func (a *Archive) Generations() ([]string, error) {
	var gens []string
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixGeneration)
		// Reverse iteration starts from the last key with the prefix.
		seek := append(bytes.Clone(prefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			gens = append(gens, generationFromKey(it.Item().Key()))
		}
		return nil
	})
	return gens, err
}

// Close closes the database.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.db.Close()
}

// ArchivingLoader loads from a primary loader and archives each good result.
// Until the first successful load it falls back to the archive, so a restart
// during a broken trainer run still serves the last good generation. Later
// failures are returned so the serving snapshot stays in place.
type ArchivingLoader struct {
	primary recommend.Loader
	archive *Archive
	logger  zerolog.Logger

	mu     sync.Mutex
	loaded bool
}

var _ recommend.Loader = (*ArchivingLoader)(nil)

// NewArchivingLoader wraps primary with archive.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewArchivingLoader(primary recommend.Loader, archive *Archive, logger zerolog.Logger) *ArchivingLoader {
	return &ArchivingLoader{
		primary: primary,
		archive: archive,
		logger:  logger.With().Str("component", "archiving-loader").Logger(),
	}
}

// Load implements recommend.Loader.
func (l *ArchivingLoader) Load(ctx context.Context) (*recommend.Artifacts, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	artifacts, err := l.primary.Load(ctx)
	if err == nil {
		_, err = recommend.NewSnapshot(artifacts)
	}
	if err == nil {
		l.loaded = true
		if saveErr := l.archive.Save(ctx, artifacts); saveErr != nil {
			l.logger.Warn().Err(saveErr).Str("generation", artifacts.Generation).Msg("Failed to archive artifacts")
		}
		return artifacts, nil
	}

	if l.loaded {
		return nil, err
	}

	archived, archiveErr := l.archive.Latest(ctx)
	metrics.RecordSnapshotLoad("archive", archiveErr)
	if archiveErr != nil {
		return nil, errors.Join(err, fmt.Errorf("archive fallback: %w", archiveErr))
	}
	l.loaded = true
	l.logger.Warn().Err(err).Str("generation", archived.Generation).
		Msg("Primary artifacts unusable, serving last archived generation")
	return archived, nil
}
