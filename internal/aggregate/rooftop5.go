// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"sort"

	"github.com/aemodata/updater/pkg/parquet"
)

// Rooftop5 interpolates rooftop30 samples down to 5-minute rooftop5 samples
// per §4.H. For consecutive anchors a(t) and b(t+30min) in the same region,
// emits six samples at t, t+5, ..., t+25 with value
// ((6-j)*a + j*b)/6. When no successor sample is yet known, a is replicated
// across all six slots (nowcast fallback).
func Rooftop5(rooftop30 []parquet.RooftopRow) []parquet.RooftopRow {
	byRegion := make(map[string][]parquet.RooftopRow)
	for _, r := range rooftop30 {
		byRegion[r.RegionID] = append(byRegion[r.RegionID], r)
	}

	var out []parquet.RooftopRow
	for region, rows := range byRegion {
		sort.Slice(rows, func(i, j int) bool { return rows[i].Settlement < rows[j].Settlement })

		for i, a := range rows {
			var b parquet.RooftopRow
			haveNext := false
			if i+1 < len(rows) && rows[i+1].Settlement == a.Settlement+thirtyMinSeconds {
				b = rows[i+1]
				haveNext = true
			}

			for j := 0; j < 6; j++ {
				var value float64
				if haveNext {
					value = (float64(6-j)*a.Power + float64(j)*b.Power) / 6
				} else {
					value = a.Power
				}
				out = append(out, parquet.RooftopRow{
					Settlement: a.Settlement + int64(j)*fiveMinSeconds,
					RegionID:   region,
					Power:      value,
				})
			}
		}
	}

	return out
}
