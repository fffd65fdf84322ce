// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store

import (
	"testing"
	"time"

	"github.com/aemodata/updater/pkg/parquet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

// S1 - Dedup across cycles.
func TestMergeDedupAcrossCycles(t *testing.T) {
	s := newTestStore(t)

	a := []parquet.PriceRow{{Settlement: 1000, RegionID: "NSW1", RRP: 100.0}}
	require.NoError(t, Merge(s, "prices5", a, PriceKeyOf, PriceSettlementOf, PriceLess, "settlementdate", "regionid"))

	b := []parquet.PriceRow{
		{Settlement: 1000, RegionID: "NSW1", RRP: 110.0},
		{Settlement: 1300, RegionID: "NSW1", RRP: 95.0},
	}
	require.NoError(t, Merge(s, "prices5", b, PriceKeyOf, PriceSettlementOf, PriceLess, "settlementdate", "regionid"))

	rows, err := LoadDataset[parquet.PriceRow](s, "prices5")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 110.0, rows[0].RRP)
}

// S2 - Preserve outside range.
func TestMergePreservesOutsideRange(t *testing.T) {
	s := newTestStore(t)

	initial := []parquet.ScadaRow{
		{Settlement: 36000, DUID: "X", ScadaValue: 50},
		{Settlement: 39600, DUID: "X", ScadaValue: 60},
	}
	require.NoError(t, Merge(s, "scada5", initial, ScadaKeyOf, ScadaSettlementOf, ScadaLess, "settlementdate", "duid"))

	update := []parquet.ScadaRow{{Settlement: 37800, DUID: "X", ScadaValue: 55}}
	require.NoError(t, Merge(s, "scada5", update, ScadaKeyOf, ScadaSettlementOf, ScadaLess, "settlementdate", "duid"))

	rows, err := LoadDataset[parquet.ScadaRow](s, "scada5")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []float64{50, 55, 60}, []float64{rows[0].ScadaValue, rows[1].ScadaValue, rows[2].ScadaValue})
}

// S3 - Negative SCADA retained through merge.
func TestMergeRetainsNegativeScada(t *testing.T) {
	s := newTestStore(t)

	slice := []parquet.ScadaRow{{Settlement: 1000, DUID: "BATT1", ScadaValue: -12.5}}
	require.NoError(t, Merge(s, "scada5", slice, ScadaKeyOf, ScadaSettlementOf, ScadaLess, "settlementdate", "duid"))

	rows, err := LoadDataset[parquet.ScadaRow](s, "scada5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, -12.5, rows[0].ScadaValue)
}

func TestMergeNonConflictingOverlapSurvives(t *testing.T) {
	s := newTestStore(t)

	initial := []parquet.PriceRow{
		{Settlement: 1000, RegionID: "NSW1", RRP: 10},
		{Settlement: 1000, RegionID: "VIC1", RRP: 20},
	}
	require.NoError(t, Merge(s, "prices5", initial, PriceKeyOf, PriceSettlementOf, PriceLess, "settlementdate", "regionid"))

	// New slice covers the same time range but only touches NSW1; VIC1 at
	// 1000 is a non-conflicting overlap survivor.
	update := []parquet.PriceRow{{Settlement: 1000, RegionID: "NSW1", RRP: 11}}
	require.NoError(t, Merge(s, "prices5", update, PriceKeyOf, PriceSettlementOf, PriceLess, "settlementdate", "regionid"))

	rows, err := LoadDataset[parquet.PriceRow](s, "prices5")
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestMergeIsSortedAndUnique(t *testing.T) {
	s := newTestStore(t)
	slice := []parquet.PriceRow{
		{Settlement: 2000, RegionID: "VIC1", RRP: 1},
		{Settlement: 1000, RegionID: "NSW1", RRP: 2},
		{Settlement: 1000, RegionID: "NSW1", RRP: 3}, // in-slice duplicate, last wins
	}
	require.NoError(t, Merge(s, "prices5", slice, PriceKeyOf, PriceSettlementOf, PriceLess, "settlementdate", "regionid"))

	rows, err := LoadDataset[parquet.PriceRow](s, "prices5")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1000), rows[0].Settlement)
	assert.Equal(t, 3.0, rows[0].RRP)
	assert.Equal(t, int64(2000), rows[1].Settlement)
}

func TestMergePrunesRowsOlderThanRetention(t *testing.T) {
	s, err := New(t.TempDir(), WithRetention(map[string]int{"scada5": 7}))
	require.NoError(t, err)

	now := time.Now()
	stale := now.Add(-30 * 24 * time.Hour).Unix()
	fresh := now.Add(-1 * time.Hour).Unix()

	slice := []parquet.ScadaRow{
		{Settlement: stale, DUID: "X", ScadaValue: 1},
		{Settlement: fresh, DUID: "X", ScadaValue: 2},
	}
	require.NoError(t, Merge(s, "scada5", slice, ScadaKeyOf, ScadaSettlementOf, ScadaLess, "settlementdate", "duid"))

	rows, err := LoadDataset[parquet.ScadaRow](s, "scada5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2.0, rows[0].ScadaValue)
}

func TestMergeWithoutRetentionKeepsEverything(t *testing.T) {
	s := newTestStore(t)
	stale := time.Now().Add(-365 * 24 * time.Hour).Unix()
	slice := []parquet.ScadaRow{{Settlement: stale, DUID: "X", ScadaValue: 1}}
	require.NoError(t, Merge(s, "scada5", slice, ScadaKeyOf, ScadaSettlementOf, ScadaLess, "settlementdate", "duid"))

	rows, err := LoadDataset[parquet.ScadaRow](s, "scada5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestVerifyReportsCleanDataset(t *testing.T) {
	s := newTestStore(t)
	slice := []parquet.ScadaRow{
		{Settlement: 1000, DUID: "X", ScadaValue: 1},
		{Settlement: 1300, DUID: "X", ScadaValue: 2},
	}
	require.NoError(t, Merge(s, "scada5", slice, ScadaKeyOf, ScadaSettlementOf, ScadaLess, "settlementdate", "duid"))

	report, err := Verify[parquet.ScadaRow](s, "scada5", ScadaKeyOf, ScadaSettlementOf, 300)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.RowCount)
}
