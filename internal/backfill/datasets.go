// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backfill

import (
	"fmt"
	"time"

	"github.com/aemodata/updater/internal/fetcher"
	"github.com/aemodata/updater/internal/mmscsv"
	"github.com/aemodata/updater/internal/normalize"
	"github.com/aemodata/updater/internal/store"
	"github.com/aemodata/updater/pkg/parquet"
)

const (
	nemwebBase           = "https://nemweb.com.au"
	dispatchISArchiveURL = nemwebBase + "/Reports/ARCHIVE/DispatchIS_Reports/"
	scadaArchiveURL      = nemwebBase + "/Reports/ARCHIVE/Dispatch_SCADA/"
	tradingISArchiveURL  = nemwebBase + "/Reports/ARCHIVE/TradingIS_Reports/"
	rooftopArchiveURL    = nemwebBase + "/Reports/Archive/ROOFTOP_PV/ACTUAL/"
	nextDayArchiveURL    = nemwebBase + "/Reports/Archive/Next_Day_Dispatch/"
	demandArchiveURL     = nemwebBase + "/Reports/Archive/Operational_Demand/ACTUAL_HH/"
)

func dailyArchiveURL(base, prefix string, day time.Time) string {
	return fmt.Sprintf("%sPUBLIC_%s_%s.zip", base, prefix, day.Format("20060102"))
}

// weeklyMondayArchiveURL resolves a Monday-start/Sunday-end weekly archive
// name. Trading IS has no explicit anchor day (unlike rooftop, which is
// Thursday-anchored); ISO week Monday is used here, recorded as an Open
// Question decision in DESIGN.md.
func weeklyMondayArchiveURL(base, prefix string, day time.Time) string {
	weekday := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -weekday)
	sunday := monday.AddDate(0, 0, 6)
	return fmt.Sprintf("%sPUBLIC_%s_%s_%s.zip", base, prefix, monday.Format("20060102"), sunday.Format("20060102"))
}

func rooftopWeeklyArchiveURL(day time.Time) string {
	thursday := EnclosingThursday(day)
	return fmt.Sprintf("%sPUBLIC_ROOFTOP_PV_ACTUAL_MEASUREMENT_%s.zip", rooftopArchiveURL, thursday.Format("20060102"))
}

// PricesDeps builds the backfill dependencies for a prices dataset
// ("prices5" from Dispatch IS or "prices30" from Trading IS). Both report
// families carry the price table under the same offset-2 id, PRICE; the
// "TRADING" vs "DISPATCH" distinction sits at offset 1, which mmscsv.Scan
// ignores.
func PricesDeps(client *fetcher.Client, st *store.Store, dataset string) Dependencies[parquet.PriceRow, store.PriceKey] {
	archiveURL := dailyDispatchURL(dispatchISArchiveURL, "DISPATCHIS")
	if dataset == "prices30" {
		archiveURL = weeklyTradingURL(tradingISArchiveURL, "TRADINGIS")
	}

	return Dependencies[parquet.PriceRow, store.PriceKey]{
		Client:       client,
		Store:        st,
		TargetTable:  "PRICE",
		ArchiveURL:   archiveURL,
		Normalize:    normalize.Prices,
		KeyOf:        store.PriceKeyOf,
		SettlementOf: store.PriceSettlementOf,
		Less:         store.PriceLess,
		SortColumns:  []string{"settlementdate", "regionid"},
		GridSeconds:  gridSecondsFor(dataset),
	}
}

// TransmissionDeps builds the backfill dependencies for a transmission
// dataset ("transmission5" or "transmission30"); same offset-2/offset-1
// reasoning as PricesDeps applies to INTERCONNECTORRES.
func TransmissionDeps(client *fetcher.Client, st *store.Store, dataset string) Dependencies[parquet.TransmissionRow, store.TransmissionKey] {
	archiveURL := dailyDispatchURL(dispatchISArchiveURL, "DISPATCHIS")
	if dataset == "transmission30" {
		archiveURL = weeklyTradingURL(tradingISArchiveURL, "TRADINGIS")
	}

	return Dependencies[parquet.TransmissionRow, store.TransmissionKey]{
		Client:       client,
		Store:        st,
		TargetTable:  "INTERCONNECTORRES",
		ArchiveURL:   archiveURL,
		Normalize:    normalize.Transmission,
		KeyOf:        store.TransmissionKeyOf,
		SettlementOf: store.TransmissionSettlementOf,
		Less:         store.TransmissionLess,
		SortColumns:  []string{"settlementdate", "interconnectorid"},
		GridSeconds:  gridSecondsFor(dataset),
	}
}

// ScadaDeps builds the backfill dependencies for scada5.
func ScadaDeps(client *fetcher.Client, st *store.Store) Dependencies[parquet.ScadaRow, store.ScadaKey] {
	return Dependencies[parquet.ScadaRow, store.ScadaKey]{
		Client:      client,
		Store:       st,
		TargetTable: "UNIT_SCADA",
		ArchiveURL:  dailyDispatchURL(scadaArchiveURL, "DISPATCHSCADA"),
		Normalize: func(t *mmscsv.Table) []parquet.ScadaRow {
			return normalize.Scada(t).Rows
		},
		KeyOf:        store.ScadaKeyOf,
		SettlementOf: store.ScadaSettlementOf,
		Less:         store.ScadaLess,
		SortColumns:  []string{"settlementdate", "duid"},
		GridSeconds:  300,
	}
}

// RooftopDeps builds the backfill dependencies for rooftop30, using
// Thursday-anchored weekly archives.
func RooftopDeps(client *fetcher.Client, st *store.Store) Dependencies[parquet.RooftopRow, store.RooftopKey] {
	return Dependencies[parquet.RooftopRow, store.RooftopKey]{
		Client:       client,
		Store:        st,
		TargetTable:  "ACTUAL",
		ArchiveURL:   rooftopWeeklyArchiveURL,
		Normalize:    normalize.Rooftop,
		KeyOf:        store.RooftopKeyOf,
		SettlementOf: store.RooftopSettlementOf,
		Less:         store.RooftopLess,
		SortColumns:  []string{"settlementdate", "regionid"},
		GridSeconds:  1800,
	}
}

// DemandDeps builds the backfill dependencies for demand30.
func DemandDeps(client *fetcher.Client, st *store.Store) Dependencies[parquet.DemandRow, store.DemandKey] {
	return Dependencies[parquet.DemandRow, store.DemandKey]{
		Client:       client,
		Store:        st,
		TargetTable:  "ACTUAL",
		ArchiveURL:   func(day time.Time) string { return dailyArchiveURL(demandArchiveURL, "ACTUAL_OPERATIONAL_DEMAND_HH", day) },
		Normalize:    normalize.Demand,
		KeyOf:        store.DemandKeyOf,
		SettlementOf: store.DemandSettlementOf,
		Less:         store.DemandLess,
		SortColumns:  []string{"settlementdate", "regionid"},
		GridSeconds:  1800,
	}
}

// CurtailmentDeps builds the backfill dependencies for curtailment, with a
// domain validator rejecting negative curtailment values (§4.I stage 4).
func CurtailmentDeps(client *fetcher.Client, st *store.Store) Dependencies[parquet.CurtailmentRow, store.CurtailmentKey] {
	return Dependencies[parquet.CurtailmentRow, store.CurtailmentKey]{
		Client:       client,
		Store:        st,
		TargetTable:  "UNIT_SOLUTION",
		ArchiveURL:   func(day time.Time) string { return dailyArchiveURL(nextDayArchiveURL, "NEXT_DAY_DISPATCH", day) },
		Normalize:    normalize.Curtailment,
		KeyOf:        store.CurtailmentKeyOf,
		SettlementOf: store.CurtailmentSettlementOf,
		Less:         store.CurtailmentLess,
		SortColumns:  []string{"settlementdate", "duid"},
		GridSeconds:  300,
		ValidateRows: func(rows []parquet.CurtailmentRow) error {
			for _, r := range rows {
				if r.Curtailment < 0 {
					return fmt.Errorf("negative curtailment for %s at %d", r.DUID, r.Settlement)
				}
			}
			return nil
		},
	}
}

// RegionalCurtailmentDeps builds the backfill dependencies for
// regionalcurtailment. The regional solar/wind curtailment aggregate
// (REGIONSUM) is a Dispatch IS table, not Next Day Dispatch — the per-DUID
// curtailment table (UNIT_SOLUTION) has no SS_* columns to derive it from.
func RegionalCurtailmentDeps(client *fetcher.Client, st *store.Store) Dependencies[parquet.RegionalCurtailmentRow, store.RegionalCurtailmentKey] {
	return Dependencies[parquet.RegionalCurtailmentRow, store.RegionalCurtailmentKey]{
		Client:       client,
		Store:        st,
		TargetTable:  "REGIONSUM",
		ArchiveURL:   dailyDispatchURL(dispatchISArchiveURL, "DISPATCHIS"),
		Normalize:    normalize.RegionalCurtailment,
		KeyOf:        store.RegionalCurtailmentKeyOf,
		SettlementOf: store.RegionalCurtailmentSettlementOf,
		Less:         store.RegionalCurtailmentLess,
		SortColumns:  []string{"settlementdate", "regionid"},
		GridSeconds:  300,
	}
}

func dailyDispatchURL(base, prefix string) func(time.Time) string {
	return func(day time.Time) string { return dailyArchiveURL(base, prefix, day) }
}

func weeklyTradingURL(base, prefix string) func(time.Time) string {
	return func(day time.Time) string { return weeklyMondayArchiveURL(base, prefix, day) }
}

func gridSecondsFor(dataset string) int64 {
	switch dataset {
	case "prices30", "transmission30", "rooftop30", "demand30":
		return 1800
	default:
		return 300
	}
}
