// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parquet

// Row types for the canonical datasets (§3). Column names are stable
// lowercase snake_case regardless of source casing, per the parquet tag.
// Settlement times are stored as Unix seconds (UTC-naive local wall-clock,
// always on a 5- or 30-minute grid).

// PriceRow backs prices5 and prices30.
type PriceRow struct {
	Settlement int64   `parquet:"settlementdate"`
	RegionID   string  `parquet:"regionid"`
	RRP        float64 `parquet:"rrp"`
}

// ScadaRow backs scada5 and scada30. Value may be negative (storage charging).
type ScadaRow struct {
	Settlement int64   `parquet:"settlementdate"`
	DUID       string  `parquet:"duid"`
	ScadaValue float64 `parquet:"scadavalue"`
}

// TransmissionRow backs transmission5 and transmission30.
type TransmissionRow struct {
	Settlement      int64   `parquet:"settlementdate"`
	InterconnectorID string `parquet:"interconnectorid"`
	MeteredMWFlow   float64 `parquet:"meteredmwflow,optional"`
	MWFlow          float64 `parquet:"mwflow,optional"`
	MWLosses        float64 `parquet:"mwlosses,optional"`
	ExportLimit     float64 `parquet:"exportlimit,optional"`
	ImportLimit     float64 `parquet:"importlimit,optional"`
}

// RooftopRow backs rooftop30 (source cadence) and rooftop5 (interpolated).
type RooftopRow struct {
	Settlement       int64   `parquet:"settlementdate"`
	RegionID         string  `parquet:"regionid"`
	Power            float64 `parquet:"power"`
	QualityIndicator string  `parquet:"quality_indicator,optional"`
	Type             string  `parquet:"type,optional"`
}

// DemandRow backs demand30.
type DemandRow struct {
	Settlement        int64   `parquet:"settlementdate"`
	RegionID          string  `parquet:"regionid"`
	Demand            float64 `parquet:"demand"`
	DemandLessSNSG    float64 `parquet:"demand_less_snsg,optional"`
}

// CurtailmentRow backs curtailment5.
type CurtailmentRow struct {
	Settlement       int64   `parquet:"settlementdate"`
	DUID             string  `parquet:"duid"`
	Availability     float64 `parquet:"availability"`
	TotalCleared     float64 `parquet:"totalcleared"`
	SemiDispatchCap  int32   `parquet:"semidispatchcap"`
	Curtailment      float64 `parquet:"curtailment"`
}

// RegionalCurtailmentRow backs the regional curtailment dataset derived from
// REGIONSUM.
type RegionalCurtailmentRow struct {
	Settlement        int64   `parquet:"settlementdate"`
	RegionID          string  `parquet:"regionid"`
	SolarCurtailment  float64 `parquet:"solar_curtailment"`
	WindCurtailment   float64 `parquet:"wind_curtailment"`
	TotalCurtailment  float64 `parquet:"total_curtailment"`
}
