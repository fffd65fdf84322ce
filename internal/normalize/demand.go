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

const thirtyMinSeconds = 30 * 60

// Demand normalizes an OPERATIONAL_DEMAND table into demand30 rows. Columns
// are read positionally ([4]=REGIONID, [5]=INTERVAL_DATETIME,
// [6]=OPERATIONAL_DEMAND in the raw CSV record, i.e. row[0..2] once
// mmscsv has sliced off the leading 4 positional fields), restricted to
// the main regions and to timestamps that fall on the 30-minute grid.
func Demand(t *mmscsv.Table) []parquet.DemandRow {
	seen := make(map[[2]any]int)
	var out []parquet.DemandRow

	for _, row := range t.Rows {
		if len(row) < 3 {
			continue
		}
		region := strings.TrimSpace(row[0])
		if !Regions[region] {
			continue
		}
		settlement, ok := parseSettlement(row[1])
		if !ok {
			continue
		}
		if settlement%thirtyMinSeconds != 0 {
			continue
		}
		demand, ok := parseFloat(row[2])
		if !ok {
			continue
		}

		key := [2]any{settlement, region}
		r := parquet.DemandRow{Settlement: settlement, RegionID: region, Demand: demand}
		if idx, dup := seen[key]; dup {
			out[idx] = r
		} else {
			seen[key] = len(out)
			out = append(out, r)
		}
	}

	return out
}
