// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package normalize

import (
	"strings"

	"github.com/aemodata/updater/internal/mmscsv"
	"github.com/aemodata/updater/pkg/parquet"
)

// Rooftop normalizes a ROOFTOP.ACTUAL table (30-min source cadence) into
// rooftop30 rows. Missing or negative power is dropped. Deduplicated on
// (settlementdate, regionid).
func Rooftop(t *mmscsv.Table) []parquet.RooftopRow {
	seen := make(map[[2]any]int)
	var out []parquet.RooftopRow

	for _, row := range t.Rows {
		region := strings.TrimSpace(t.Get(row, "REGIONID"))
		if !Regions[region] {
			continue
		}
		settlement, ok := parseSettlement(t.Get(row, "INTERVAL_DATETIME"))
		if !ok {
			continue
		}
		power, ok := parseFloat(t.Get(row, "POWER"))
		if !ok || power < 0 {
			continue
		}

		key := [2]any{settlement, region}
		r := parquet.RooftopRow{
			Settlement:       settlement,
			RegionID:         region,
			Power:            power,
			QualityIndicator: t.Get(row, "QI"),
			Type:             t.Get(row, "TYPE"),
		}
		if idx, dup := seen[key]; dup {
			out[idx] = r
		} else {
			seen[key] = len(out)
			out = append(out, r)
		}
	}

	return out
}
