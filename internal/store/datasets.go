// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store

import "github.com/aemodata/updater/pkg/parquet"

// PriceKey, ScadaKey, ... are the comparable primary-key types used with
// Merge and LoadDataset for each canonical dataset (§3).

type PriceKey struct {
	Settlement int64
	RegionID   string
}

type ScadaKey struct {
	Settlement int64
	DUID       string
}

type TransmissionKey struct {
	Settlement       int64
	InterconnectorID string
}

type RooftopKey struct {
	Settlement int64
	RegionID   string
}

type DemandKey struct {
	Settlement int64
	RegionID   string
}

type CurtailmentKey struct {
	Settlement int64
	DUID       string
}

type RegionalCurtailmentKey struct {
	Settlement int64
	RegionID   string
}

func PriceKeyOf(r parquet.PriceRow) PriceKey { return PriceKey{r.Settlement, r.RegionID} }
func PriceSettlementOf(r parquet.PriceRow) int64 { return r.Settlement }
func PriceLess(a, b parquet.PriceRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.RegionID < b.RegionID
}

func ScadaKeyOf(r parquet.ScadaRow) ScadaKey { return ScadaKey{r.Settlement, r.DUID} }
func ScadaSettlementOf(r parquet.ScadaRow) int64 { return r.Settlement }
func ScadaLess(a, b parquet.ScadaRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.DUID < b.DUID
}

func TransmissionKeyOf(r parquet.TransmissionRow) TransmissionKey {
	return TransmissionKey{r.Settlement, r.InterconnectorID}
}
func TransmissionSettlementOf(r parquet.TransmissionRow) int64 { return r.Settlement }
func TransmissionLess(a, b parquet.TransmissionRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.InterconnectorID < b.InterconnectorID
}

func RooftopKeyOf(r parquet.RooftopRow) RooftopKey { return RooftopKey{r.Settlement, r.RegionID} }
func RooftopSettlementOf(r parquet.RooftopRow) int64 { return r.Settlement }
func RooftopLess(a, b parquet.RooftopRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.RegionID < b.RegionID
}

func DemandKeyOf(r parquet.DemandRow) DemandKey { return DemandKey{r.Settlement, r.RegionID} }
func DemandSettlementOf(r parquet.DemandRow) int64 { return r.Settlement }
func DemandLess(a, b parquet.DemandRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.RegionID < b.RegionID
}

func CurtailmentKeyOf(r parquet.CurtailmentRow) CurtailmentKey {
	return CurtailmentKey{r.Settlement, r.DUID}
}
func CurtailmentSettlementOf(r parquet.CurtailmentRow) int64 { return r.Settlement }
func CurtailmentLess(a, b parquet.CurtailmentRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.DUID < b.DUID
}

func RegionalCurtailmentKeyOf(r parquet.RegionalCurtailmentRow) RegionalCurtailmentKey {
	return RegionalCurtailmentKey{r.Settlement, r.RegionID}
}
func RegionalCurtailmentSettlementOf(r parquet.RegionalCurtailmentRow) int64 { return r.Settlement }
func RegionalCurtailmentLess(a, b parquet.RegionalCurtailmentRow) bool {
	if a.Settlement != b.Settlement {
		return a.Settlement < b.Settlement
	}
	return a.RegionID < b.RegionID
}
