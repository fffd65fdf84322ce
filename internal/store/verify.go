// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store

import "fmt"

// Report summarizes a Verify pass over a canonical dataset file.
type Report struct {
	Dataset     string
	RowCount    int
	DuplicateKeys int
	OutOfOrder  int
	Gaps        int
}

func (r Report) OK() bool {
	return r.DuplicateKeys == 0 && r.OutOfOrder == 0
}

// Verify performs the read-only consistency check described in
// SUPPLEMENTED FEATURES #3: primary-key uniqueness, sort order, and a gap
// count between consecutive distinct settlement timestamps (informational
// only — gaps are expected around outages and are not failures).
//
// settlementOf and keyOf mirror the functions passed to Merge. gridSeconds
// is the dataset's expected cadence (300 for 5-minute datasets, 1800 for
// 30-minute datasets), used only to count gaps.
func Verify[T any, K comparable](
	s *Store,
	dataset string,
	keyOf func(T) K,
	settlementOf func(T) int64,
	gridSeconds int64,
) (Report, error) {
	rows, err := LoadDataset[T](s, dataset)
	if err != nil {
		return Report{}, fmt.Errorf("store: verify %s: %w", dataset, err)
	}

	report := Report{Dataset: dataset, RowCount: len(rows)}

	seen := make(map[K]bool, len(rows))
	var lastSettlement int64
	haveLast := false

	for _, r := range rows {
		k := keyOf(r)
		if seen[k] {
			report.DuplicateKeys++
		}
		seen[k] = true

		t := settlementOf(r)
		if haveLast {
			if t < lastSettlement {
				report.OutOfOrder++
			} else if gridSeconds > 0 && t > lastSettlement && (t-lastSettlement) > gridSeconds {
				report.Gaps++
			}
		}
		lastSettlement = t
		haveLast = true
	}

	return report, nil
}
