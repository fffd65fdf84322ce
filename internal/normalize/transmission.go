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

// Transmission normalizes an INTERCONNECTORRES table into
// transmission5/transmission30 rows. All seven columns are always present
// in the output even if a source field is absent. Deduplicated on
// (settlementdate, interconnectorid).
func Transmission(t *mmscsv.Table) []parquet.TransmissionRow {
	seen := make(map[[2]any]int)
	var out []parquet.TransmissionRow

	for _, row := range t.Rows {
		ic := strings.TrimSpace(t.Get(row, "INTERCONNECTORID"))
		if ic == "" {
			continue
		}
		settlement, ok := parseSettlement(t.Get(row, "SETTLEMENTDATE"))
		if !ok {
			continue
		}

		metered, _ := parseFloat(t.Get(row, "METEREDMWFLOW"))
		mwflow, _ := parseFloat(t.Get(row, "MWFLOW"))
		losses, _ := parseFloat(t.Get(row, "MWLOSSES"))
		exportLimit, _ := parseFloat(t.Get(row, "EXPORTLIMIT"))
		importLimit, _ := parseFloat(t.Get(row, "IMPORTLIMIT"))

		key := [2]any{settlement, ic}
		r := parquet.TransmissionRow{
			Settlement:       settlement,
			InterconnectorID: ic,
			MeteredMWFlow:    metered,
			MWFlow:           mwflow,
			MWLosses:         losses,
			ExportLimit:      exportLimit,
			ImportLimit:      importLimit,
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
