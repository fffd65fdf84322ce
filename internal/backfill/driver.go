// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package backfill implements the five-stage historical backfill driver
// described in §4.I: probe, bulk download (with resumable checkpointing),
// build a staging artifact, validate it, then merge into production and
// re-verify. It never touches production unless every prior stage passed.
package backfill

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aemodata/updater/internal/extract"
	"github.com/aemodata/updater/internal/fetcher"
	"github.com/aemodata/updater/internal/mmscsv"
	"github.com/aemodata/updater/internal/store"
	"github.com/aemodata/updater/internal/util"
	"github.com/aemodata/updater/pkg/log"
	"github.com/aemodata/updater/pkg/parquet"
)

// Config controls one backfill run.
type Config struct {
	Dataset         string
	Start, End      time.Time
	TestOnly        bool // probe stage only, per §6's --test flag
	ScratchDir      string
	CheckpointEvery int // days; default 10

	// BackupTarget, if set, receives a copy of the pre-merge backup in
	// addition to the local gzipped scratch-dir copy (e.g. an S3 bucket).
	// Nil means the local copy is the only backup.
	BackupTarget parquet.Target
}

func (c Config) withDefaults() Config {
	if c.CheckpointEvery <= 0 {
		c.CheckpointEvery = 10
	}
	return c
}

// Dependencies supplies the dataset-specific behavior shared by every
// backfill: which table to read, how to normalize it, its primary key,
// and where to find the archive file for a given day.
type Dependencies[T any, K comparable] struct {
	Client       *fetcher.Client
	Store        *store.Store
	TargetTable  string
	ArchiveURL   func(day time.Time) string
	Normalize    func(t *mmscsv.Table) []T
	KeyOf        func(T) K
	SettlementOf func(T) int64
	Less         func(a, b T) bool
	SortColumns  []string
	GridSeconds  int64

	// ValidateRows performs dataset-specific cheap validation (e.g. no
	// negative curtailment, plausible DUID count) on top of the generic
	// checks every dataset gets. Optional.
	ValidateRows func([]T) error
}

// Report summarizes a completed backfill.
type Report struct {
	Dataset      string
	RowsMerged   int
	DaysFetched  int
	ProbeOnly    bool
	BackupPath   string
	VerifyReport store.Report

	// MinRowsPerDay/MaxRowsPerDay/MedianRowsPerDay characterize the spread of
	// per-day row counts seen during the bulk download stage, so an operator
	// can spot a thin or partial archive day without diffing raw logs.
	MinRowsPerDay    int
	MaxRowsPerDay    int
	MedianRowsPerDay float64
}

// Run executes the five stages. On any failure the scratch directory is
// preserved for operator inspection and production is left untouched,
// except that a merge failure after a successful backup leaves the backup
// in place alongside the unmodified production file.
func Run[T any, K comparable](ctx context.Context, cfg Config, deps Dependencies[T, K]) (Report, error) {
	cfg = cfg.withDefaults()
	if err := os.MkdirAll(cfg.ScratchDir, 0o750); err != nil {
		return Report{}, fmt.Errorf("backfill: create scratch dir: %w", err)
	}

	// Stage 1: probe.
	probeRows, err := fetchDay(ctx, deps, cfg.Start)
	if err != nil {
		return Report{}, fmt.Errorf("backfill: probe stage: %w", err)
	}
	if err := cheapValidate(probeRows, deps); err != nil {
		return Report{}, fmt.Errorf("backfill: probe stage validation: %w", err)
	}
	log.Infof("backfill: %s probe ok, %d rows at %s", cfg.Dataset, len(probeRows), cfg.Start.Format("2006-01-02"))

	if cfg.TestOnly {
		return Report{Dataset: cfg.Dataset, ProbeOnly: true, RowsMerged: len(probeRows)}, nil
	}

	// Stage 2: bulk download, with checkpoint/resume.
	day, collected, resumed, err := loadCheckpoint[T](cfg.ScratchDir, cfg.Dataset)
	if err != nil {
		return Report{}, fmt.Errorf("backfill: load checkpoint: %w", err)
	}
	if !resumed {
		day = cfg.Start
		collected = append(collected, probeRows...)
	} else {
		day = day.AddDate(0, 0, 1)
		log.Infof("backfill: %s resuming from checkpoint at %s", cfg.Dataset, day.Format("2006-01-02"))
	}

	daysFetched := 0
	rowsPerDay := make([]float64, 0, int(cfg.End.Sub(cfg.Start).Hours()/24)+1)
	for ; !day.After(cfg.End); day = day.AddDate(0, 0, 1) {
		rows, err := fetchDay(ctx, deps, day)
		if err != nil {
			if saveErr := saveCheckpoint(cfg.ScratchDir, cfg.Dataset, day.AddDate(0, 0, -1), collected); saveErr != nil {
				log.Warnf("backfill: checkpoint save failed: %s", saveErr.Error())
			}
			return Report{}, fmt.Errorf("backfill: bulk download at %s: %w", day.Format("2006-01-02"), err)
		}
		collected = append(collected, rows...)
		daysFetched++
		rowsPerDay = append(rowsPerDay, float64(len(rows)))

		if daysFetched%cfg.CheckpointEvery == 0 {
			if err := saveCheckpoint(cfg.ScratchDir, cfg.Dataset, day, collected); err != nil {
				log.Warnf("backfill: checkpoint save failed: %s", err.Error())
			} else {
				log.Infof("backfill: %s checkpoint at %s (%d rows, %.1fMB scratch dir)",
					cfg.Dataset, day.Format("2006-01-02"), len(collected), util.DiskUsage(cfg.ScratchDir))
			}
		}
	}

	// Stage 3: build staging artifact.
	staged := dedupSortedCopy(collected, deps)
	stagingPath := filepath.Join(cfg.ScratchDir, cfg.Dataset+".staging.parquet")
	encoded, err := parquet.WriteRows(staged, deps.SortColumns...)
	if err != nil {
		return Report{}, fmt.Errorf("backfill: encode staging artifact: %w", err)
	}
	if err := os.WriteFile(stagingPath, encoded, 0o644); err != nil {
		return Report{}, fmt.Errorf("backfill: write staging artifact: %w", err)
	}

	// Stage 4: validate staging.
	if err := cheapValidate(staged, deps); err != nil {
		return Report{}, fmt.Errorf("backfill: staging validation: %w", err)
	}
	if hasDuplicateKeys(staged, deps.KeyOf) {
		return Report{}, fmt.Errorf("backfill: staging validation: duplicate keys survived dedup")
	}

	// Stage 5: merge & verify.
	backupPath, err := backupExisting(deps.Store, cfg.Dataset, cfg.ScratchDir, cfg.BackupTarget)
	if err != nil {
		return Report{}, fmt.Errorf("backfill: backup production: %w", err)
	}

	if err := store.Merge(deps.Store, cfg.Dataset, staged, deps.KeyOf, deps.SettlementOf, deps.Less, deps.SortColumns...); err != nil {
		return Report{}, fmt.Errorf("backfill: merge: %w", err)
	}

	verifyReport, err := store.Verify[T](deps.Store, cfg.Dataset, deps.KeyOf, deps.SettlementOf, deps.GridSeconds)
	if err != nil {
		return Report{}, fmt.Errorf("backfill: post-merge verify: %w", err)
	}
	if !verifyReport.OK() {
		return Report{}, fmt.Errorf("backfill: post-merge verify failed: %d duplicate keys, %d out of order", verifyReport.DuplicateKeys, verifyReport.OutOfOrder)
	}

	removeCheckpoint(cfg.ScratchDir, cfg.Dataset)
	os.Remove(stagingPath)

	minRows, maxRows := 0, 0
	for i, n := range rowsPerDay {
		rows := int(n)
		if i == 0 {
			minRows, maxRows = rows, rows
			continue
		}
		minRows = util.Min(minRows, rows)
		maxRows = util.Max(maxRows, rows)
	}
	medianRows, err := util.Median(rowsPerDay)
	if err != nil {
		medianRows = 0
	}
	log.Infof("backfill: %s rows/day spread: min %d, median %.1f, max %d over %d days",
		cfg.Dataset, minRows, medianRows, maxRows, len(rowsPerDay))

	return Report{
		Dataset:          cfg.Dataset,
		RowsMerged:       len(staged),
		DaysFetched:      daysFetched,
		BackupPath:       backupPath,
		VerifyReport:     verifyReport,
		MinRowsPerDay:    minRows,
		MaxRowsPerDay:    maxRows,
		MedianRowsPerDay: medianRows,
	}, nil
}

func fetchDay[T any, K comparable](ctx context.Context, deps Dependencies[T, K], day time.Time) ([]T, error) {
	url := deps.ArchiveURL(day)
	body, err := deps.Client.Get(ctx, url)
	if err != nil {
		return nil, err
	}

	entries, err := extract.Zip(body)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}

	var rows []T
	for _, e := range entries {
		table, err := mmscsv.Scan(e.Data, deps.TargetTable)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", e.Name, err)
		}
		rows = append(rows, deps.Normalize(table)...)
	}
	return rows, nil
}

func cheapValidate[T any, K comparable](rows []T, deps Dependencies[T, K]) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows produced")
	}
	if deps.ValidateRows != nil {
		return deps.ValidateRows(rows)
	}
	return nil
}

func hasDuplicateKeys[T any, K comparable](rows []T, keyOf func(T) K) bool {
	seen := make(map[K]bool, len(rows))
	for _, r := range rows {
		k := keyOf(r)
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}

func dedupSortedCopy[T any, K comparable](rows []T, deps Dependencies[T, K]) []T {
	last := make(map[K]T, len(rows))
	order := make([]K, 0, len(rows))
	for _, r := range rows {
		k := deps.KeyOf(r)
		if _, ok := last[k]; !ok {
			order = append(order, k)
		}
		last[k] = r
	}

	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, last[k])
	}
	sort.Slice(out, func(i, j int) bool { return deps.Less(out[i], out[j]) })
	return out
}

// backupExisting copies the dataset's current production file (if any)
// into a timestamped backup directory under scratchDir before the merge,
// gzipped to keep the scratch directory's footprint down across repeated
// backfill runs. When target is set, the uncompressed bytes are also
// pushed there (e.g. an S3 bucket) for off-host retention.
func backupExisting(s *store.Store, dataset, scratchDir string, target parquet.Target) (string, error) {
	src := s.Path(dataset)
	if !util.CheckFileExists(src) {
		return "", nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", err
	}

	backupName := dataset + "-" + time.Now().UTC().Format("20060102T150405Z") + ".parquet"
	if target != nil {
		if err := target.WriteFile(backupName, data); err != nil {
			log.Warnf("backfill: remote backup target failed, continuing with local copy only: %s", err.Error())
		} else {
			log.Infof("backfill: %s backup pushed to remote target as %s", dataset, backupName)
		}
	}

	backupDir := filepath.Join(scratchDir, "backup-"+time.Now().UTC().Format("20060102T150405Z"))
	if err := os.MkdirAll(backupDir, 0o750); err != nil {
		return "", err
	}
	dst := filepath.Join(backupDir, dataset+".parquet")
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}

	gz := dst + ".gz"
	if err := util.CompressFile(dst, gz); err != nil {
		log.Warnf("backfill: backup compression failed, keeping uncompressed copy: %s", err.Error())
		return dst, nil
	}
	log.Infof("backfill: %s backup compressed to %d bytes", dataset, util.GetFilesize(gz))
	return gz, nil
}
