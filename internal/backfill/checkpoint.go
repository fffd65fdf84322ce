// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backfill

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aemodata/updater/pkg/parquet"
)

// CheckpointStatus is the JSON half of a backfill checkpoint
// (SUPPLEMENTED FEATURE #5, grounded on backfill_transmission_full.py's
// save_checkpoint/load_checkpoint). The row data itself lives in a sidecar
// parquet file written alongside this JSON file.
type CheckpointStatus struct {
	Dataset     string    `json:"dataset"`
	CurrentDay  time.Time `json:"current_day"`
	RecordCount int       `json:"record_count"`
}

func checkpointJSONPath(scratchDir, dataset string) string {
	return filepath.Join(scratchDir, dataset+".checkpoint.json")
}

func checkpointDataPath(scratchDir, dataset string) string {
	return filepath.Join(scratchDir, dataset+".checkpoint.parquet")
}

// saveCheckpoint writes the current day and accumulated rows so a killed
// or failed backfill can resume without redownloading prior days.
func saveCheckpoint[T any](scratchDir, dataset string, day time.Time, rows []T) error {
	status := CheckpointStatus{Dataset: dataset, CurrentDay: day, RecordCount: len(rows)}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("backfill: marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(checkpointJSONPath(scratchDir, dataset), data, 0o644); err != nil {
		return fmt.Errorf("backfill: write checkpoint status: %w", err)
	}

	encoded, err := parquet.WriteRows(rows)
	if err != nil {
		return fmt.Errorf("backfill: encode checkpoint rows: %w", err)
	}
	if err := os.WriteFile(checkpointDataPath(scratchDir, dataset), encoded, 0o644); err != nil {
		return fmt.Errorf("backfill: write checkpoint rows: %w", err)
	}
	return nil
}

// loadCheckpoint returns the saved day and rows, or ok=false if no
// checkpoint exists yet for dataset.
func loadCheckpoint[T any](scratchDir, dataset string) (day time.Time, rows []T, ok bool, err error) {
	statusData, readErr := os.ReadFile(checkpointJSONPath(scratchDir, dataset))
	if os.IsNotExist(readErr) {
		return time.Time{}, nil, false, nil
	}
	if readErr != nil {
		return time.Time{}, nil, false, fmt.Errorf("backfill: read checkpoint status: %w", readErr)
	}

	var status CheckpointStatus
	if err := json.Unmarshal(statusData, &status); err != nil {
		return time.Time{}, nil, false, fmt.Errorf("backfill: parse checkpoint status: %w", err)
	}

	rowData, err := os.ReadFile(checkpointDataPath(scratchDir, dataset))
	if err != nil {
		return time.Time{}, nil, false, fmt.Errorf("backfill: read checkpoint rows: %w", err)
	}
	rows, err = parquet.ReadRows[T](rowData)
	if err != nil {
		return time.Time{}, nil, false, fmt.Errorf("backfill: decode checkpoint rows: %w", err)
	}

	return status.CurrentDay, rows, true, nil
}

func removeCheckpoint(scratchDir, dataset string) {
	os.Remove(checkpointJSONPath(scratchDir, dataset))
	os.Remove(checkpointDataPath(scratchDir, dataset))
}
