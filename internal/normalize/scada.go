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

// ScadaResult carries the normalized rows alongside every DUID observed in
// this batch, for the known-DUID diff in §4.J.
type ScadaResult struct {
	Rows  []parquet.ScadaRow
	DUIDs map[string]bool
}

// Scada normalizes a UNIT_SCADA table into scada5 rows. Negative values are
// retained (battery charging); only unparseable values are dropped.
// Deduplicated on (settlementdate, duid).
func Scada(t *mmscsv.Table) ScadaResult {
	seen := make(map[[2]any]int)
	res := ScadaResult{DUIDs: make(map[string]bool)}

	for _, row := range t.Rows {
		duid := strings.TrimSpace(t.Get(row, "DUID"))
		if duid == "" {
			continue
		}
		settlement, ok := parseSettlement(t.Get(row, "SETTLEMENTDATE"))
		if !ok {
			continue
		}
		value, ok := parseFloat(t.Get(row, "SCADAVALUE"))
		if !ok {
			continue
		}

		res.DUIDs[duid] = true

		key := [2]any{settlement, duid}
		r := parquet.ScadaRow{Settlement: settlement, DUID: duid, ScadaValue: value}
		if idx, dup := seen[key]; dup {
			res.Rows[idx] = r
		} else {
			seen[key] = len(res.Rows)
			res.Rows = append(res.Rows, r)
		}
	}

	return res
}
