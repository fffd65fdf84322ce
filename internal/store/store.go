// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package store implements the merge engine (§4.E): incremental,
// atomic-replace merging of a normalized slice into a canonical dataset
// file. One file per dataset, named "{dataset}.parquet", written through a
// temp-file-then-rename discipline so a reader never observes a partial
// file.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aemodata/updater/pkg/log"
	"github.com/aemodata/updater/pkg/parquet"
)

// MergeFailure is returned when the merge cannot complete; the target file
// is guaranteed to be untouched.
type MergeFailure struct {
	Dataset string
	Err     error
}

func (e *MergeFailure) Error() string {
	return fmt.Sprintf("store: merge %s: %v", e.Dataset, e.Err)
}

func (e *MergeFailure) Unwrap() error { return e.Err }

// Store manages canonical dataset files under a root data directory.
type Store struct {
	dataPath  string
	retention map[string]int // dataset -> retention days, 0/absent means keep forever
}

// Option configures optional Store behavior.
type Option func(*Store)

// WithRetention sets the per-dataset retention policy applied on every
// Merge: rows whose settlement time is older than (now - days) are dropped
// from the merged result before it is written. Datasets absent from days,
// or mapped to 0, are never pruned.
func WithRetention(days map[string]int) Option {
	return func(s *Store) { s.retention = days }
}

// New creates a Store rooted at dataPath, creating the directory if needed.
func New(dataPath string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return nil, fmt.Errorf("store: create data path: %w", err)
	}
	s := &Store{dataPath: dataPath}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the canonical file path for a dataset.
func (s *Store) Path(dataset string) string {
	return filepath.Join(s.dataPath, dataset+".parquet")
}

// LoadDataset reads and decodes the canonical file for dataset, returning
// an empty, non-nil slice if the file does not yet exist.
func LoadDataset[T any](s *Store, dataset string) ([]T, error) {
	data, err := os.ReadFile(s.Path(dataset))
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", dataset, err)
	}
	return parquet.ReadRows[T](data)
}

// Merge implements §4.E's nine-step algorithm for one dataset file. T is
// the row type; K is the primary-key type (typically a small comparable
// struct of the dataset's key columns). keyOf extracts a row's primary key;
// settlementOf extracts its settlement time (Unix seconds); less reports
// whether a sorts before b by the dataset's primary-key columns;
// sortColumns are the parquet column names used by the sorting writer.
func Merge[T any, K comparable](
	s *Store,
	dataset string,
	newSlice []T,
	keyOf func(T) K,
	settlementOf func(T) int64,
	less func(a, b T) bool,
	sortColumns ...string,
) error {
	if len(newSlice) == 0 {
		return nil
	}

	path := s.Path(dataset)

	existing, err := LoadDataset[T](s, dataset)
	if err != nil {
		// Treat a load failure as a missing file: full rewrite with the new slice.
		log.Warnf("store: %s: load existing failed, rewriting from new slice: %v", dataset, err)
		existing = nil
	}

	merged := mergeRows(existing, newSlice, keyOf, settlementOf)
	if days := s.retention[dataset]; days > 0 {
		cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour).Unix()
		merged = pruneOlderThan(merged, settlementOf, cutoff)
	}
	sort.Slice(merged, func(i, j int) bool { return less(merged[i], merged[j]) })

	if err := writeAtomic(path, merged, sortColumns); err != nil {
		return &MergeFailure{Dataset: dataset, Err: err}
	}

	return nil
}

func mergeRows[T any, K comparable](existing, newSlice []T, keyOf func(T) K, settlementOf func(T) int64) []T {
	if len(existing) == 0 {
		return dedupKeepLast(newSlice, keyOf)
	}

	tMin, tMax := settlementOf(newSlice[0]), settlementOf(newSlice[0])
	for _, r := range newSlice {
		t := settlementOf(r)
		if t < tMin {
			tMin = t
		}
		if t > tMax {
			tMax = t
		}
	}

	newKeys := make(map[K]bool, len(newSlice))
	for _, r := range newSlice {
		newKeys[keyOf(r)] = true
	}

	out := make([]T, 0, len(existing)+len(newSlice))
	for _, r := range existing {
		t := settlementOf(r)
		if t < tMin || t > tMax {
			// Outside the new slice's range: always survives.
			out = append(out, r)
			continue
		}
		// Inside the overlap range: survives only if its key is not replaced.
		if !newKeys[keyOf(r)] {
			out = append(out, r)
		}
	}
	out = append(out, newSlice...)

	return dedupKeepLast(out, keyOf)
}

// dedupKeepLast drops duplicate keys, keeping the last occurrence in rows —
// callers append the new slice after existing rows, so this keeps the
// new-slice version on collision.
func dedupKeepLast[T any, K comparable](rows []T, keyOf func(T) K) []T {
	lastIdx := make(map[K]int, len(rows))
	for i, r := range rows {
		lastIdx[keyOf(r)] = i
	}

	out := make([]T, 0, len(lastIdx))
	kept := make(map[K]bool, len(lastIdx))
	for i, r := range rows {
		k := keyOf(r)
		if lastIdx[k] == i && !kept[k] {
			out = append(out, r)
			kept[k] = true
		}
	}
	return out
}

// pruneOlderThan drops rows whose settlement time falls before cutoff
// (a Unix-second timestamp), implementing the optional per-dataset
// retention policy (§6's retention_days configuration surface).
func pruneOlderThan[T any](rows []T, settlementOf func(T) int64, cutoff int64) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if settlementOf(r) >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

func writeAtomic[T any](path string, rows []T, sortColumns []string) error {
	data, err := parquet.WriteRows(rows, sortColumns...)
	if err != nil {
		return fmt.Errorf("encode parquet: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
