// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package extract implements the nested-ZIP archive extractor (§4.B).
// AEMO archives come in two shapes: a single-level zip holding one or more
// CSVs, or a daily/weekly zip whose entries are themselves zips, each
// holding exactly one CSV for one dispatch interval.
package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Entry is one extracted CSV file: its inner name and raw bytes.
type Entry struct {
	Name string
	Data []byte
}

// Zip extracts CSV entries from zip-encoded bytes, descending one nesting
// level when an entry is itself a zip. Non-zip, non-CSV entries are ignored.
func Zip(data []byte) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("extract: open zip: %w", err)
	}

	var out []Entry
	for _, f := range r.File {
		lower := strings.ToLower(f.Name)
		switch {
		case strings.HasSuffix(lower, ".csv"):
			b, err := readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("extract: read %s: %w", f.Name, err)
			}
			out = append(out, Entry{Name: f.Name, Data: b})

		case strings.HasSuffix(lower, ".zip"):
			inner, err := readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("extract: read nested %s: %w", f.Name, err)
			}
			nested, err := Zip(inner)
			if err != nil {
				return nil, fmt.Errorf("extract: nested zip %s: %w", f.Name, err)
			}
			out = append(out, nested...)

		default:
			// Ignored: neither a CSV nor a further zip.
		}
	}

	return out, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Timestamp extracts the 12-digit YYYYMMDDHHMM timestamp carried in a
// fixed positional slot of an AEMO filename: the third underscore-separated
// part, truncated to 12 characters. Returns "" if the filename does not
// have enough parts or the slot is shorter than 12 characters.
func Timestamp(filename string) string {
	parts := strings.Split(filename, "_")
	if len(parts) < 3 {
		return ""
	}
	slot := parts[2]
	if len(slot) < 12 {
		return ""
	}
	return slot[:12]
}
