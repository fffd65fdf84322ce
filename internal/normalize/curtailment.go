// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package normalize

import (
	"regexp"
	"strings"

	"github.com/aemodata/updater/internal/mmscsv"
	"github.com/aemodata/updater/pkg/parquet"
)

var renewableDUID = regexp.MustCompile(`(?i)(WF|SF|SOLAR|WIND|PV)`)

func isSolarDUID(duid string) bool {
	upper := strings.ToUpper(duid)
	return strings.Contains(upper, "SF") || strings.Contains(upper, "SOLAR")
}

// Curtailment normalizes a DISPATCH.UNIT_SOLUTION table into curtailment5
// rows, restricted to renewable DUIDs and computing the curtailment value
// per §4.D's rules.
func Curtailment(t *mmscsv.Table) []parquet.CurtailmentRow {
	seen := make(map[[2]any]int)
	var out []parquet.CurtailmentRow

	for _, row := range t.Rows {
		duid := strings.TrimSpace(t.Get(row, "DUID"))
		if duid == "" || !renewableDUID.MatchString(duid) {
			continue
		}
		settlement, ok := parseSettlement(t.Get(row, "SETTLEMENTDATE"))
		if !ok {
			continue
		}
		availability, ok := parseFloat(t.Get(row, "AVAILABILITY"))
		if !ok {
			continue
		}
		totalCleared, ok := parseFloat(t.Get(row, "TOTALCLEARED"))
		if !ok {
			continue
		}
		semiRaw, ok := parseFloat(t.Get(row, "SEMIDISPATCHCAP"))
		if !ok {
			continue
		}
		semi := int32(semiRaw)

		curtailment := curtailmentValue(semi, duid, availability, totalCleared)

		key := [2]any{settlement, duid}
		r := parquet.CurtailmentRow{
			Settlement:      settlement,
			DUID:            duid,
			Availability:    availability,
			TotalCleared:    totalCleared,
			SemiDispatchCap: semi,
			Curtailment:     curtailment,
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

func curtailmentValue(semiDispatchCap int32, duid string, availability, totalCleared float64) float64 {
	if semiDispatchCap == 0 {
		return 0
	}
	if isSolarDUID(duid) && availability <= 1.0 {
		return 0
	}
	if c := availability - totalCleared; c > 0 {
		return c
	}
	return 0
}
