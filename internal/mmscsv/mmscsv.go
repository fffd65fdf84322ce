// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mmscsv parses AEMO's MMS CSV format (§4.C): line-oriented CSV
// where each line starts with a row-type marker (C=comment, I=column
// definition, D=data), columns and table identifiers sit at fixed
// positional offsets, and a single file may hold several tables.
package mmscsv

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/aemodata/updater/pkg/log"
)

// Table is the in-memory result of scanning for one target table name:
// named columns and string cell rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Get returns the value of column name in row i, or "" if the column is
// absent (e.g. a source field that never appears in this file).
func (t *Table) Get(row []string, name string) string {
	for i, c := range t.Columns {
		if c == name {
			if i < len(row) {
				return row[i]
			}
			return ""
		}
	}
	return ""
}

const (
	rowTypeIdx = 0
	tableIdx   = 2
	dataStart  = 4
)

// Scan reads csvText and extracts the table named targetTable. The first I
// row matching targetTable defines the schema; all subsequent D rows with
// the same table name are appended. Returns an empty, non-nil Table (no
// error) if the table is never found — that is not a failure per §4.C.
func Scan(csvText []byte, targetTable string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(string(csvText)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table := &Table{}
	found := false

	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			// Malformed line: dropped, not fatal to the scan.
			log.Debugf("mmscsv: skipping malformed line: %v", err)
			continue
		}
		if len(record) <= tableIdx {
			continue
		}

		switch record[rowTypeIdx] {
		case "C":
			// comment/metadata row, skip.
		case "I":
			if !found && record[tableIdx] == targetTable {
				if len(record) > dataStart {
					table.Columns = append([]string(nil), record[dataStart:]...)
				}
				found = true
			}
		case "D":
			if found && record[tableIdx] == targetTable {
				var row []string
				if len(record) > dataStart {
					row = append([]string(nil), record[dataStart:]...)
				}
				table.Rows = append(table.Rows, row)
			}
		default:
			// Unrelated row, ignored.
		}
	}

	return table, nil
}
