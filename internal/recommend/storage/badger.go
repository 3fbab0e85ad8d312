// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const (
	badgerSnapPrefix = "snapshot:v"
	badgerMetaPrefix = "snapmeta:v"
)

// Keys are zero-padded so lexicographic key order matches version order.
func badgerSnapKey(version int64) []byte {
	return []byte(fmt.Sprintf("%s%010d", badgerSnapPrefix, version))
}

func badgerMetaKey(version int64) []byte {
	return []byte(fmt.Sprintf("%s%010d", badgerMetaPrefix, version))
}

// BadgerStore keeps snapshot versions in an embedded Badger database.
// Each version is a key pair: the compressed blob under snapshot:v<N>
// and its JSON metadata under snapmeta:v<N>, written in one transaction.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger

	// mu serializes version assignment between concurrent saves.
	mu sync.Mutex
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger snapshot store: %w", err)
	}
	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "snapshot_store").Str("backend", "badger").Logger(),
	}, nil
}

// Save persists the snapshot under the next free version number.
func (s *BadgerStore) Save(snap *recommend.Snapshot) (Metadata, error) {
	start := time.Now()
	meta, err := s.save(snap)
	metrics.RecordSnapshotSave(time.Since(start), err)
	if err != nil {
		return Metadata{}, err
	}
	s.logger.Info().
		Int64("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Str("checksum", meta.Checksum).
		Msg("snapshot saved")
	return meta, nil
}

func (s *BadgerStore) save(snap *recommend.Snapshot) (Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.listVersions()
	if err != nil {
		return Metadata{}, err
	}
	next := int64(1)
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}

	compressed, checksum, rawSize, err := encodeSnapshot(snap)
	if err != nil {
		return Metadata{}, err
	}
	meta := metadataFor(next, snap, checksum, rawSize)
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return Metadata{}, fmt.Errorf("encode snapshot metadata: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(badgerSnapKey(next), compressed); err != nil {
			return err
		}
		return txn.Set(badgerMetaKey(next), metaJSON)
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("write snapshot: %w", err)
	}
	return meta, nil
}

// Load retrieves one snapshot version.
func (s *BadgerStore) Load(version int64) (*recommend.Snapshot, Metadata, error) {
	start := time.Now()
	snap, meta, err := s.load(version)
	metrics.RecordSnapshotLoad(time.Since(start), err)
	if err != nil {
		return nil, Metadata{}, err
	}
	s.logger.Debug().Int64("version", version).Msg("snapshot loaded")
	return snap, meta, nil
}

func (s *BadgerStore) load(version int64) (*recommend.Snapshot, Metadata, error) {
	var meta Metadata
	var compressed []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerMetaKey(version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return fmt.Errorf("read snapshot metadata: %w", err)
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read snapshot metadata: %w", err)
		}
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("decode snapshot metadata: %w", err)
		}

		item, err = txn.Get(badgerSnapKey(version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return fmt.Errorf("read snapshot blob: %w", err)
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, Metadata{}, err
	}

	snap, err := decodeSnapshot(compressed, meta.Checksum)
	if err != nil {
		return nil, Metadata{}, err
	}
	return snap, meta, nil
}

// LoadLatest retrieves the highest stored version.
func (s *BadgerStore) LoadLatest() (*recommend.Snapshot, Metadata, error) {
	versions, err := s.listVersions()
	if err != nil {
		return nil, Metadata{}, err
	}
	if len(versions) == 0 {
		return nil, Metadata{}, ErrSnapshotNotFound
	}
	return s.Load(versions[len(versions)-1])
}

// List returns metadata for all stored versions, newest first.
func (s *BadgerStore) List() ([]Metadata, error) {
	var out []Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerMetaPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			raw, err := it.Item().ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read snapshot metadata: %w", err)
			}
			var meta Metadata
			if err := json.Unmarshal(raw, &meta); err != nil {
				return fmt.Errorf("decode snapshot metadata: %w", err)
			}
			out = append(out, meta)
		}
		return nil
	})
	if err != nil {
		metrics.SnapshotStoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

// Delete removes one stored version.
func (s *BadgerStore) Delete(version int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(badgerMetaKey(version)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		} else if err != nil {
			return fmt.Errorf("read snapshot metadata: %w", err)
		}
		if err := txn.Delete(badgerSnapKey(version)); err != nil {
			return err
		}
		return txn.Delete(badgerMetaKey(version))
	})
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			metrics.SnapshotStoreErrors.WithLabelValues("delete").Inc()
		}
		return err
	}
	s.logger.Info().Int64("version", version).Msg("snapshot deleted")
	return nil
}

// Prune removes all but the newest keep versions.
func (s *BadgerStore) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.listVersions()
	if err != nil {
		metrics.SnapshotStoreErrors.WithLabelValues("prune").Inc()
		return 0, err
	}
	if len(versions) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, v := range versions[:len(versions)-keep] {
		err := s.db.Update(func(txn *badger.Txn) error {
			if err := txn.Delete(badgerSnapKey(v)); err != nil {
				return err
			}
			return txn.Delete(badgerMetaKey(v))
		})
		if err != nil {
			metrics.SnapshotStoreErrors.WithLabelValues("prune").Inc()
			return deleted, fmt.Errorf("delete snapshot version %d: %w", v, err)
		}
		deleted++
	}
	s.logger.Info().Int("deleted", deleted).Int("kept", keep).Msg("old snapshots pruned")
	return deleted, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// listVersions scans metadata keys and returns version numbers in
// ascending order. Values are not fetched.
func (s *BadgerStore) listVersions() ([]int64, error) {
	var versions []int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerMetaPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			v, err := strconv.ParseInt(strings.TrimPrefix(key, badgerMetaPrefix), 10, 64)
			if err != nil {
				continue
			}
			versions = append(versions, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan snapshot versions: %w", err)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}
