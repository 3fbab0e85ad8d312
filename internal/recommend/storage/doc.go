// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package storage persists trained snapshots with versioning and
// integrity checking.
//
// # Format
//
// A snapshot is gob-encoded, checksummed with SHA-256 and
// gzip-compressed, then wrapped in an envelope carrying its metadata
// (version, checksum, sizes, build info). Snapshots load wholesale; a
// checksum mismatch fails the load with ErrChecksumMismatch rather than
// serving a corrupt model.
//
// # Backends
//
// Two interchangeable backends implement Store:
//
//   - FileStore: one snapshot_v<N>.gob.gz file per version in a flat
//     directory, written atomically via temp file and rename
//   - BadgerStore: versions as key pairs in an embedded Badger database
//     (snapshot:v<N> for the blob, snapmeta:v<N> for metadata)
//
// Versions are assigned monotonically by the store at save time.
// Deployments keep a bounded history via Prune.
package storage
