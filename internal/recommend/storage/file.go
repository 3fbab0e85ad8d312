// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
)

const (
	snapshotFilePrefix = "snapshot_v"
	snapshotFileSuffix = ".gob.gz"
)

// storedFile is the on-disk envelope: metadata plus the compressed,
// checksummed snapshot blob.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// FileStore keeps one snapshot file per version in a flat directory.
// Writes go through a temp file and rename, so a crash mid-save never
// leaves a truncated snapshot under the real name.
type FileStore struct {
	dir    string
	logger zerolog.Logger

	// mu serializes version assignment between concurrent saves.
	mu sync.Mutex
}

// NewFileStore creates the directory if needed and returns a store
// rooted there.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With().Str("component", "snapshot_store").Str("backend", "file").Logger(),
	}, nil
}

// Save persists the snapshot under the next free version number.
func (s *FileStore) Save(snap *recommend.Snapshot) (Metadata, error) {
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

func (s *FileStore) save(snap *recommend.Snapshot) (Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.scanVersions()
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

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(storedFile{Metadata: meta, CompressedData: compressed}); err != nil {
		return Metadata{}, fmt.Errorf("encode snapshot envelope: %w", err)
	}

	path := s.snapshotPath(next)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return Metadata{}, fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return Metadata{}, fmt.Errorf("rename snapshot file: %w", err)
	}
	return meta, nil
}

// Load retrieves one snapshot version.
func (s *FileStore) Load(version int64) (*recommend.Snapshot, Metadata, error) {
	start := time.Now()
	snap, meta, err := s.load(version)
	metrics.RecordSnapshotLoad(time.Since(start), err)
	if err != nil {
		return nil, Metadata{}, err
	}
	s.logger.Debug().Int64("version", version).Msg("snapshot loaded")
	return snap, meta, nil
}

func (s *FileStore) load(version int64) (*recommend.Snapshot, Metadata, error) {
	data, err := os.ReadFile(s.snapshotPath(version))
	if errors.Is(err, os.ErrNotExist) {
		return nil, Metadata{}, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var sf storedFile
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sf); err != nil {
		return nil, Metadata{}, fmt.Errorf("decode snapshot envelope: %w", err)
	}
	snap, err := decodeSnapshot(sf.CompressedData, sf.Metadata.Checksum)
	if err != nil {
		return nil, Metadata{}, err
	}
	return snap, sf.Metadata, nil
}

// LoadLatest retrieves the highest stored version.
func (s *FileStore) LoadLatest() (*recommend.Snapshot, Metadata, error) {
	versions, err := s.scanVersions()
	if err != nil {
		return nil, Metadata{}, err
	}
	if len(versions) == 0 {
		return nil, Metadata{}, ErrSnapshotNotFound
	}
	return s.Load(versions[len(versions)-1])
}

// List returns metadata for all stored versions, newest first.
func (s *FileStore) List() ([]Metadata, error) {
	versions, err := s.scanVersions()
	if err != nil {
		metrics.SnapshotStoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}

	out := make([]Metadata, 0, len(versions))
	for i := len(versions) - 1; i >= 0; i-- {
		data, err := os.ReadFile(s.snapshotPath(versions[i]))
		if err != nil {
			metrics.SnapshotStoreErrors.WithLabelValues("list").Inc()
			return nil, fmt.Errorf("read snapshot file: %w", err)
		}
		var sf storedFile
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&sf); err != nil {
			metrics.SnapshotStoreErrors.WithLabelValues("list").Inc()
			return nil, fmt.Errorf("decode snapshot envelope: %w", err)
		}
		out = append(out, sf.Metadata)
	}
	return out, nil
}

// Delete removes one stored version.
func (s *FileStore) Delete(version int64) error {
	err := os.Remove(s.snapshotPath(version))
	if errors.Is(err, os.ErrNotExist) {
		return ErrSnapshotNotFound
	}
	if err != nil {
		metrics.SnapshotStoreErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("delete snapshot file: %w", err)
	}
	s.logger.Info().Int64("version", version).Msg("snapshot deleted")
	return nil
}

// Prune removes all but the newest keep versions.
func (s *FileStore) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, err := s.scanVersions()
	if err != nil {
		metrics.SnapshotStoreErrors.WithLabelValues("prune").Inc()
		return 0, err
	}
	if len(versions) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, v := range versions[:len(versions)-keep] {
		if err := os.Remove(s.snapshotPath(v)); err != nil {
			metrics.SnapshotStoreErrors.WithLabelValues("prune").Inc()
			return deleted, fmt.Errorf("delete snapshot file: %w", err)
		}
		deleted++
	}
	s.logger.Info().Int("deleted", deleted).Int("kept", keep).Msg("old snapshots pruned")
	return deleted, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) snapshotPath(version int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%d%s", snapshotFilePrefix, version, snapshotFileSuffix))
}

// scanVersions lists stored version numbers in ascending order. Files
// that do not match the snapshot naming scheme are ignored.
func (s *FileStore) scanVersions() ([]int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read snapshot directory: %w", err)
	}

	var versions []int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if v, ok := parseSnapshotFilename(entry.Name()); ok {
			versions = append(versions, v)
		}
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions, nil
}

func parseSnapshotFilename(name string) (int64, bool) {
	if !strings.HasPrefix(name, snapshotFilePrefix) || !strings.HasSuffix(name, snapshotFileSuffix) {
		return 0, false
	}
	num := strings.TrimSuffix(strings.TrimPrefix(name, snapshotFilePrefix), snapshotFileSuffix)
	v, err := strconv.ParseInt(num, 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
