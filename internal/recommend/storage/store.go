// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/recommend"
)

var (
	// ErrSnapshotNotFound is returned when the requested version (or any
	// version, for LoadLatest) does not exist.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrChecksumMismatch is returned when a stored snapshot fails
	// integrity verification. The snapshot is never partially loaded.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)

// Metadata describes one stored snapshot version.
type Metadata struct {
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	Checksum  string    `json:"checksum"`
	SizeBytes int64     `json:"size_bytes"`
	Movies    int       `json:"movies"`
	Users     int       `json:"users"`
	Events    int       `json:"events"`
	BuiltAt   time.Time `json:"built_at"`
	Trigger   string    `json:"trigger"`
}

// Store persists and retrieves snapshot versions. Implementations are
// safe for concurrent use; Save assigns the next version number
// atomically.
type Store interface {
	// Save persists a snapshot under the next version number and
	// returns its metadata.
	Save(snap *recommend.Snapshot) (Metadata, error)

	// Load retrieves one version. Missing versions return
	// ErrSnapshotNotFound; corrupt blobs return ErrChecksumMismatch.
	Load(version int64) (*recommend.Snapshot, Metadata, error)

	// LoadLatest retrieves the highest stored version, or
	// ErrSnapshotNotFound when the store is empty.
	LoadLatest() (*recommend.Snapshot, Metadata, error)

	// List returns metadata for all stored versions, newest first.
	List() ([]Metadata, error)

	// Delete removes one version. Missing versions return
	// ErrSnapshotNotFound.
	Delete(version int64) error

	// Prune deletes all but the newest keep versions and returns how
	// many were removed.
	Prune(keep int) (int, error)

	// Close releases backend resources.
	Close() error
}

// New returns the configured Store backend rooted at path.
func New(backend, path string, logger zerolog.Logger) (Store, error) {
	switch backend {
	case "file":
		return NewFileStore(path, logger)
	case "badger":
		return NewBadgerStore(path, logger)
	default:
		return nil, fmt.Errorf("unknown snapshot store backend %q", backend)
	}
}

// encodeSnapshot serializes a snapshot to the stored form: gob, then
// SHA-256 over the raw encoding, then gzip. The checksum covers the
// uncompressed bytes so corruption in either layer is caught.
func encodeSnapshot(snap *recommend.Snapshot) (compressed []byte, checksum string, rawSize int64, err error) {
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(snap); err != nil {
		return nil, "", 0, fmt.Errorf("encode snapshot: %w", err)
	}

	sum := sha256.Sum256(raw.Bytes())
	checksum = fmt.Sprintf("%x", sum)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		return nil, "", 0, fmt.Errorf("compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("compress snapshot: %w", err)
	}
	return buf.Bytes(), checksum, int64(raw.Len()), nil
}

// decodeSnapshot reverses encodeSnapshot, verifying the checksum before
// decoding.
func decodeSnapshot(compressed []byte, checksum string) (*recommend.Snapshot, error) {
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	sum := sha256.Sum256(raw)
	if fmt.Sprintf("%x", sum) != checksum {
		return nil, ErrChecksumMismatch
	}

	var snap recommend.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// metadataFor builds stored metadata from a snapshot's build info.
func metadataFor(version int64, snap *recommend.Snapshot, checksum string, size int64) Metadata {
	return Metadata{
		Version:   version,
		CreatedAt: time.Now().UTC(),
		Checksum:  checksum,
		SizeBytes: size,
		Movies:    snap.Info.MatrixMovies,
		Users:     snap.Info.MatrixUsers,
		Events:    snap.Info.SampledEvents,
		BuiltAt:   snap.Info.BuiltAt,
		Trigger:   snap.Info.Trigger,
	}
}
