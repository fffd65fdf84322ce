// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"context"
	"fmt"

	"github.com/aemodata/updater/internal/aggregate"
	"github.com/aemodata/updater/internal/alert"
	"github.com/aemodata/updater/internal/duid"
	"github.com/aemodata/updater/internal/extract"
	"github.com/aemodata/updater/internal/fetcher"
	"github.com/aemodata/updater/internal/mmscsv"
	"github.com/aemodata/updater/internal/normalize"
	"github.com/aemodata/updater/internal/store"
	"github.com/aemodata/updater/pkg/parquet"
)

// Upstream report directories (§6). The host is AEMO's public NEMWEB
// mirror; only the "Current" trees are polled by the scheduler, the
// "ARCHIVE"/"Archive" trees are used by internal/backfill.
const (
	nemwebBase           = "https://nemweb.com.au"
	dispatchISCurrentURL = nemwebBase + "/Reports/Current/DispatchIS_Reports/"
	scadaCurrentURL      = nemwebBase + "/Reports/Current/Dispatch_SCADA/"
	tradingISCurrentURL  = nemwebBase + "/Reports/Current/TradingIS_Reports/"
	rooftopCurrentURL    = nemwebBase + "/Reports/Current/ROOFTOP_PV/ACTUAL/"
	nextDayCurrentURL    = nemwebBase + "/Reports/Current/Next_Day_Dispatch/"
	demandCurrentURL     = nemwebBase + "/Reports/Current/Operational_Demand/ACTUAL_HH/"
)

func zipCSVTables(body []byte, targetTables ...string) (map[string]*mmscsv.Table, error) {
	entries, err := extract.Zip(body)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	merged := make(map[string]*mmscsv.Table, len(targetTables))
	for _, e := range entries {
		for _, want := range targetTables {
			table, err := mmscsv.Scan(e.Data, want)
			if err != nil {
				return nil, fmt.Errorf("mmscsv: scan %s: %w", want, err)
			}
			if len(table.Rows) == 0 {
				continue
			}
			if existing, ok := merged[want]; ok {
				existing.Rows = append(existing.Rows, table.Rows...)
			} else {
				merged[want] = table
			}
		}
	}
	return merged, nil
}

// NewDispatchISCollector polls Dispatch IS reports, which carry 5-minute
// prices (PRICE), 5-minute transmission flows (INTERCONNECTORRES), and the
// regional solar/wind curtailment aggregate (REGIONSUM) in the same files.
func NewDispatchISCollector(client *fetcher.Client, st *store.Store) *Collector {
	return NewCollector("dispatchis", dispatchISCurrentURL, client, func(ctx context.Context, body []byte) (int, error) {
		tables, err := zipCSVTables(body, "PRICE", "INTERCONNECTORRES", "REGIONSUM")
		if err != nil {
			return 0, err
		}

		var added int
		if table, ok := tables["PRICE"]; ok {
			rows := normalize.Prices(table)
			if len(rows) > 0 {
				if err := store.Merge(st, "prices5", rows, store.PriceKeyOf, store.PriceSettlementOf, store.PriceLess, "settlementdate", "regionid"); err != nil {
					return added, err
				}
				added += len(rows)
			}
		}
		if table, ok := tables["INTERCONNECTORRES"]; ok {
			rows := normalize.Transmission(table)
			if len(rows) > 0 {
				if err := store.Merge(st, "transmission5", rows, store.TransmissionKeyOf, store.TransmissionSettlementOf, store.TransmissionLess, "settlementdate", "interconnectorid"); err != nil {
					return added, err
				}
				added += len(rows)
			}
		}
		if table, ok := tables["REGIONSUM"]; ok {
			regional := normalize.RegionalCurtailment(table)
			if len(regional) > 0 {
				if err := store.Merge(st, "regionalcurtailment", regional, store.RegionalCurtailmentKeyOf, store.RegionalCurtailmentSettlementOf, store.RegionalCurtailmentLess, "settlementdate", "regionid"); err != nil {
					return added, err
				}
				added += len(regional)
			}
		}
		return added, nil
	})
}

// NewTradingISCollector polls Trading IS reports: 30-minute prices and
// transmission flows, the trading-interval counterpart of Dispatch IS. The
// system token TRADING sits at offset 1; the table ids at offset 2 are the
// same PRICE/INTERCONNECTORRES names Dispatch IS uses.
func NewTradingISCollector(client *fetcher.Client, st *store.Store) *Collector {
	return NewCollector("tradingis", tradingISCurrentURL, client, func(ctx context.Context, body []byte) (int, error) {
		tables, err := zipCSVTables(body, "PRICE", "INTERCONNECTORRES")
		if err != nil {
			return 0, err
		}

		var added int
		if table, ok := tables["PRICE"]; ok {
			rows := normalize.Prices(table)
			if len(rows) > 0 {
				if err := store.Merge(st, "prices30", rows, store.PriceKeyOf, store.PriceSettlementOf, store.PriceLess, "settlementdate", "regionid"); err != nil {
					return added, err
				}
				added += len(rows)
			}
		}
		if table, ok := tables["INTERCONNECTORRES"]; ok {
			rows := normalize.Transmission(table)
			if len(rows) > 0 {
				if err := store.Merge(st, "transmission30", rows, store.TransmissionKeyOf, store.TransmissionSettlementOf, store.TransmissionLess, "settlementdate", "interconnectorid"); err != nil {
					return added, err
				}
				added += len(rows)
			}
		}
		return added, nil
	})
}

// NewScadaCollector polls Dispatch SCADA reports and, after each merge,
// diffs observed DUIDs against the known-DUID registry (§4.J), unions any
// new entries, and raises one alert per cycle listing them.
func NewScadaCollector(client *fetcher.Client, st *store.Store, registry *duid.Registry, alerts *alert.Manager) *Collector {
	return NewCollector("scada5", scadaCurrentURL, client, func(ctx context.Context, body []byte) (int, error) {
		tables, err := zipCSVTables(body, "UNIT_SCADA")
		if err != nil {
			return 0, err
		}
		table, ok := tables["UNIT_SCADA"]
		if !ok {
			return 0, nil
		}

		result := normalize.Scada(table)
		if len(result.Rows) == 0 {
			return 0, nil
		}
		if err := store.Merge(st, "scada5", result.Rows, store.ScadaKeyOf, store.ScadaSettlementOf, store.ScadaLess, "settlementdate", "duid"); err != nil {
			return 0, err
		}

		if registry != nil && len(result.DUIDs) > 0 {
			fresh := registry.Diff(result.DUIDs)
			if len(fresh) > 0 {
				if err := registry.Union(fresh); err != nil && alerts != nil {
					alerts.Send(alert.Alert{
						Title:    "known-DUID registry write failed",
						Message:  err.Error(),
						Severity: alert.Warning,
						Source:   "scada5",
					})
				}
				if alerts != nil {
					alerts.Send(alert.Alert{
						Title:    "new generating units observed",
						Message:  fmt.Sprintf("%d new DUID(s) observed this cycle", len(fresh)),
						Severity: alert.Info,
						Source:   "scada5",
						Metadata: map[string]string{"duids": fmt.Sprint(fresh)},
					})
				}
			}
		}

		return len(result.Rows), nil
	})
}

// NewNextDayDispatchCollector polls Next Day Dispatch reports for per-DUID
// curtailment (UNIT_SOLUTION). The regional solar/wind curtailment
// aggregate is a separate table (REGIONSUM) that only appears in the
// Dispatch IS family, and is collected by NewDispatchISCollector instead.
func NewNextDayDispatchCollector(client *fetcher.Client, st *store.Store) *Collector {
	return NewCollector("curtailment", nextDayCurrentURL, client, func(ctx context.Context, body []byte) (int, error) {
		tables, err := zipCSVTables(body, "UNIT_SOLUTION")
		if err != nil {
			return 0, err
		}
		table, ok := tables["UNIT_SOLUTION"]
		if !ok {
			return 0, nil
		}

		var added int
		rows := normalize.Curtailment(table)
		if len(rows) > 0 {
			if err := store.Merge(st, "curtailment", rows, store.CurtailmentKeyOf, store.CurtailmentSettlementOf, store.CurtailmentLess, "settlementdate", "duid"); err != nil {
				return added, err
			}
			added += len(rows)
		}
		return added, nil
	})
}

// NewRooftopCollector polls rooftop PV actuals (30-minute cadence).
func NewRooftopCollector(client *fetcher.Client, st *store.Store) *Collector {
	return NewCollector("rooftop30", rooftopCurrentURL, client, func(ctx context.Context, body []byte) (int, error) {
		tables, err := zipCSVTables(body, "ACTUAL")
		if err != nil {
			return 0, err
		}
		table, ok := tables["ACTUAL"]
		if !ok {
			return 0, nil
		}

		rows := normalize.Rooftop(table)
		if len(rows) == 0 {
			return 0, nil
		}
		if err := store.Merge(st, "rooftop30", rows, store.RooftopKeyOf, store.RooftopSettlementOf, store.RooftopLess, "settlementdate", "regionid"); err != nil {
			return 0, err
		}
		return len(rows), nil
	})
}

// NewDemandCollector polls operational demand actuals (30-minute cadence).
func NewDemandCollector(client *fetcher.Client, st *store.Store) *Collector {
	return NewCollector("demand30", demandCurrentURL, client, func(ctx context.Context, body []byte) (int, error) {
		tables, err := zipCSVTables(body, "ACTUAL")
		if err != nil {
			return 0, err
		}
		table, ok := tables["ACTUAL"]
		if !ok {
			return 0, nil
		}

		rows := normalize.Demand(table)
		if len(rows) == 0 {
			return 0, nil
		}
		if err := store.Merge(st, "demand30", rows, store.DemandKeyOf, store.DemandSettlementOf, store.DemandLess, "settlementdate", "regionid"); err != nil {
			return 0, err
		}
		return len(rows), nil
	})
}

// NewScada30Job builds the derived SCADA 30-minute aggregation task (§4.G).
// It resumes its watermark from the highest settlement already present in
// the scada30 canonical file.
func NewScada30Job(st *store.Store) (CycleTask, error) {
	existing, err := store.LoadDataset[parquet.ScadaRow](st, "scada30")
	if err != nil {
		return CycleTask{}, fmt.Errorf("scada30: load watermark: %w", err)
	}
	var w int64 = -1
	for _, r := range existing {
		if r.Settlement > w {
			w = r.Settlement
		}
	}

	return CycleTask{
		Dataset: "scada30",
		Run: func(ctx context.Context) (int, error) {
			scada5, err := store.LoadDataset[parquet.ScadaRow](st, "scada5")
			if err != nil {
				return 0, err
			}
			rows := aggregate.Scada30(scada5, w)
			if len(rows) == 0 {
				return 0, nil
			}
			if err := store.Merge(st, "scada30", rows, store.ScadaKeyOf, store.ScadaSettlementOf, store.ScadaLess, "settlementdate", "duid"); err != nil {
				return 0, err
			}
			for _, r := range scada5 {
				if r.Settlement > w {
					w = r.Settlement
				}
			}
			return len(rows), nil
		},
	}, nil
}

// NewRooftop5Job builds the derived rooftop 30→5 interpolation task (§4.H).
// It recomputes the full rooftop5 series from rooftop30 each cycle; the
// merge engine's keep-last dedup makes re-deriving unchanged samples a
// no-op on disk content, just wasted CPU for the unchanged tail.
func NewRooftop5Job(st *store.Store) CycleTask {
	return CycleTask{
		Dataset: "rooftop5",
		Run: func(ctx context.Context) (int, error) {
			rooftop30, err := store.LoadDataset[parquet.RooftopRow](st, "rooftop30")
			if err != nil {
				return 0, err
			}
			rows := aggregate.Rooftop5(rooftop30)
			if len(rows) == 0 {
				return 0, nil
			}
			if err := store.Merge(st, "rooftop5", rows, store.RooftopKeyOf, store.RooftopSettlementOf, store.RooftopLess, "settlementdate", "regionid"); err != nil {
				return 0, err
			}
			return len(rows), nil
		},
	}
}
