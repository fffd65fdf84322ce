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

// Prices normalizes a PRICE table into prices5/prices30 rows: restricted to
// the five main regions, deduplicated on (settlementdate, regionid).
func Prices(t *mmscsv.Table) []parquet.PriceRow {
	seen := make(map[[2]any]int)
	var out []parquet.PriceRow

	for _, row := range t.Rows {
		region := strings.TrimSpace(t.Get(row, "REGIONID"))
		if !Regions[region] {
			continue
		}
		settlement, ok := parseSettlement(t.Get(row, "SETTLEMENTDATE"))
		if !ok {
			continue
		}
		rrp, ok := parseFloat(t.Get(row, "RRP"))
		if !ok {
			continue
		}

		key := [2]any{settlement, region}
		r := parquet.PriceRow{Settlement: settlement, RegionID: region, RRP: rrp}
		if idx, dup := seen[key]; dup {
			out[idx] = r
		} else {
			seen[key] = len(out)
			out = append(out, r)
		}
	}

	return out
}
