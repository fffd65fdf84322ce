// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parquet

import (
	"bytes"
	"fmt"
	"io"

	pq "github.com/parquet-go/parquet-go"
)

// WriteRows encodes rows as a parquet file, sorted by the given columns.
// Column names must match the `parquet:"..."` tags of T.
func WriteRows[T any](rows []T, sortColumns ...string) ([]byte, error) {
	var buf bytes.Buffer

	opts := []pq.WriterOption{pq.Compression(&pq.Zstd)}
	if len(sortColumns) > 0 {
		cols := make([]pq.SortingColumn, len(sortColumns))
		for i, c := range sortColumns {
			cols[i] = pq.Ascending(c)
		}
		opts = append(opts, pq.SortingWriterConfig(pq.SortingColumns(cols...)))
	}

	writer := pq.NewGenericWriter[T](&buf, opts...)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("parquet: write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("parquet: close writer: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadRows decodes all rows of type T from parquet-encoded bytes. An empty
// or missing file (len(data) == 0) returns an empty, non-nil slice.
func ReadRows[T any](data []byte) ([]T, error) {
	if len(data) == 0 {
		return []T{}, nil
	}

	file, err := pq.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parquet: open file: %w", err)
	}

	reader := pq.NewGenericReader[T](file)
	defer reader.Close()

	rows := make([]T, file.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("parquet: read rows: %w", err)
	}

	return rows[:n], nil
}
