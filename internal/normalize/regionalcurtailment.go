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

// RegionalCurtailment normalizes a REGIONSUM table into per-region solar,
// wind, and total curtailment rows. Missing source fields default to 0.
func RegionalCurtailment(t *mmscsv.Table) []parquet.RegionalCurtailmentRow {
	seen := make(map[[2]any]int)
	var out []parquet.RegionalCurtailmentRow

	for _, row := range t.Rows {
		region := strings.TrimSpace(t.Get(row, "REGIONID"))
		if !Regions[region] {
			continue
		}
		settlement, ok := parseSettlement(t.Get(row, "SETTLEMENTDATE"))
		if !ok {
			continue
		}

		solarUIGF, _ := parseFloat(t.Get(row, "SS_SOLAR_UIGF"))
		solarCleared, _ := parseFloat(t.Get(row, "SS_SOLAR_CLEAREDMW"))
		windUIGF, _ := parseFloat(t.Get(row, "SS_WIND_UIGF"))
		windCleared, _ := parseFloat(t.Get(row, "SS_WIND_CLEAREDMW"))

		solarCurtailment := maxFloat(solarUIGF-solarCleared, 0)
		windCurtailment := maxFloat(windUIGF-windCleared, 0)

		key := [2]any{settlement, region}
		r := parquet.RegionalCurtailmentRow{
			Settlement:       settlement,
			RegionID:         region,
			SolarCurtailment: solarCurtailment,
			WindCurtailment:  windCurtailment,
			TotalCurtailment: solarCurtailment + windCurtailment,
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

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
