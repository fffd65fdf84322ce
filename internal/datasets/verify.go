// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package datasets names every canonical dataset this engine produces and
// supplies the row/key-type bindings needed to run a generic store.Verify
// pass against any of them by name (SUPPLEMENTED FEATURE #3), without
// requiring the caller to know each dataset's concrete row type.
package datasets

import (
	"fmt"

	"github.com/aemodata/updater/internal/store"
	"github.com/aemodata/updater/pkg/parquet"
)

// Names lists every dataset name the engine can produce.
var Names = []string{
	"prices5", "prices30",
	"transmission5", "transmission30",
	"scada5", "scada30",
	"curtailment", "regionalcurtailment",
	"rooftop30", "rooftop5",
	"demand30",
}

func gridSecondsFor(dataset string) int64 {
	switch dataset {
	case "prices30", "transmission30", "rooftop30", "demand30":
		return 1800
	default:
		return 300
	}
}

// Verify runs store.Verify against dataset, dispatching to the right row
// type. Returns an error for an unrecognized dataset name.
func Verify(s *store.Store, dataset string) (store.Report, error) {
	grid := gridSecondsFor(dataset)
	switch dataset {
	case "prices5", "prices30":
		return store.Verify[parquet.PriceRow](s, dataset, store.PriceKeyOf, store.PriceSettlementOf, grid)
	case "transmission5", "transmission30":
		return store.Verify[parquet.TransmissionRow](s, dataset, store.TransmissionKeyOf, store.TransmissionSettlementOf, grid)
	case "scada5", "scada30":
		return store.Verify[parquet.ScadaRow](s, dataset, store.ScadaKeyOf, store.ScadaSettlementOf, grid)
	case "curtailment":
		return store.Verify[parquet.CurtailmentRow](s, dataset, store.CurtailmentKeyOf, store.CurtailmentSettlementOf, grid)
	case "regionalcurtailment":
		return store.Verify[parquet.RegionalCurtailmentRow](s, dataset, store.RegionalCurtailmentKeyOf, store.RegionalCurtailmentSettlementOf, grid)
	case "rooftop30", "rooftop5":
		return store.Verify[parquet.RooftopRow](s, dataset, store.RooftopKeyOf, store.RooftopSettlementOf, grid)
	case "demand30":
		return store.Verify[parquet.DemandRow](s, dataset, store.DemandKeyOf, store.DemandSettlementOf, grid)
	default:
		return store.Report{}, fmt.Errorf("datasets: unknown dataset %q", dataset)
	}
}
