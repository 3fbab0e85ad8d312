// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package storage

import (
	"bytes"
	"compress/gzip"
	"errors"
	"reflect"
	"testing"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

func newBadgerStore(t *testing.T) (*BadgerStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewBadgerStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func TestBadgerStoreRoundTrip(t *testing.T) {
	s, _ := newBadgerStore(t)
	snap := testSnapshot(t, "cli")

	meta, err := s.Save(snap)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("Version = %d, want 1", meta.Version)
	}

	loaded, gotMeta, err := s.Load(1)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if gotMeta.Checksum != meta.Checksum {
		t.Errorf("loaded checksum %q, want %q", gotMeta.Checksum, meta.Checksum)
	}
	if got, want := loaded.Popular(3), snap.Popular(3); !reflect.DeepEqual(got, want) {
		t.Errorf("Popular diverged after reload:\ngot  %v\nwant %v", got, want)
	}
	if !reflect.DeepEqual(loaded.Catalog.Movies, snap.Catalog.Movies) {
		t.Error("catalog changed across the round trip")
	}
}

func TestBadgerStoreVersionSequence(t *testing.T) {
	s, _ := newBadgerStore(t)

	for i := 0; i < 3; i++ {
		if _, err := s.Save(testSnapshot(t, "schedule")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	wantVersions := []int64{3, 2, 1}
	if len(list) != len(wantVersions) {
		t.Fatalf("List() returned %d entries, want %d", len(list), len(wantVersions))
	}
	for i, meta := range list {
		if meta.Version != wantVersions[i] {
			t.Errorf("List()[%d].Version = %d, want %d", i, meta.Version, wantVersions[i])
		}
	}

	if _, meta, err := s.LoadLatest(); err != nil || meta.Version != 3 {
		t.Errorf("LoadLatest() = v%d, %v, want v3", meta.Version, err)
	}
}

func TestBadgerStoreMissingVersion(t *testing.T) {
	s, _ := newBadgerStore(t)

	if _, _, err := s.Load(42); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Load(42) error = %v, want ErrSnapshotNotFound", err)
	}
	if _, _, err := s.LoadLatest(); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("LoadLatest() on empty store error = %v, want ErrSnapshotNotFound", err)
	}
	if err := s.Delete(42); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Delete(42) error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestBadgerStoreChecksumMismatch(t *testing.T) {
	s, _ := newBadgerStore(t)
	if _, err := s.Save(testSnapshot(t, "cli")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Swap the blob for valid gzip of the wrong bytes. Metadata keeps
	// the original checksum, so verification must fail.
	var forged bytes.Buffer
	zw := gzip.NewWriter(&forged)
	if _, err := zw.Write([]byte("not the snapshot")); err != nil {
		t.Fatalf("forge blob: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("forge blob: %v", err)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerSnapKey(1), forged.Bytes())
	})
	if err != nil {
		t.Fatalf("overwrite blob: %v", err)
	}

	if _, _, err := s.Load(1); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Load() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestBadgerStoreDeleteAndPrune(t *testing.T) {
	s, _ := newBadgerStore(t)
	for i := 0; i < 4; i++ {
		if _, err := s.Save(testSnapshot(t, "schedule")); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := s.Delete(2); err != nil {
		t.Fatalf("Delete(2) error = %v", err)
	}
	if _, _, err := s.Load(2); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Load(2) after delete error = %v, want ErrSnapshotNotFound", err)
	}

	deleted, err := s.Prune(1)
	if err != nil {
		t.Fatalf("Prune(1) error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune(1) deleted %d, want 2", deleted)
	}
	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Version != 4 {
		t.Errorf("List() after prune = %v, want only v4", list)
	}
}

func TestBadgerStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBadgerStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	snap := testSnapshot(t, "cli")
	if _, err := s.Save(snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewBadgerStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	loaded, meta, err := reopened.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest() after reopen error = %v", err)
	}
	if meta.Version != 1 {
		t.Errorf("Version = %d, want 1", meta.Version)
	}
	if got, want := loaded.Popular(3), snap.Popular(3); !reflect.DeepEqual(got, want) {
		t.Errorf("Popular diverged after reopen:\ngot  %v\nwant %v", got, want)
	}
}
