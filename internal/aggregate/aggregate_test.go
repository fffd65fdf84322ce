// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package aggregate

import (
	"testing"

	"github.com/aemodata/updater/pkg/parquet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S3 (aggregation half) - mean may be negative given negative SCADA inputs.
func TestScada30MeanOfNegativeValues(t *testing.T) {
	base := int64(10 * 3600) // 10:00 in seconds-of-day terms, arbitrary epoch ok
	var rows []parquet.ScadaRow
	values := []float64{-12.5, -10, -9, -8, -7, -5}
	for i, v := range values {
		rows = append(rows, parquet.ScadaRow{
			// window is (base, base+30min]: samples run base+5min..base+30min.
			Settlement: base + int64(i+1)*fiveMinSeconds,
			DUID:       "BATT1",
			ScadaValue: v,
		})
	}
	// endpoint at base+30min
	endpoint := base + thirtyMinSeconds

	out := Scada30(rows, base-1)
	require.Len(t, out, 1)
	assert.Equal(t, endpoint, out[0].Settlement)
	assert.InDelta(t, -8.5833333, out[0].ScadaValue, 1e-4)
}

func TestScada30OnlyAboveWatermark(t *testing.T) {
	rows := []parquet.ScadaRow{
		{Settlement: 0, DUID: "X", ScadaValue: 1},
		{Settlement: thirtyMinSeconds, DUID: "X", ScadaValue: 2},
	}
	out := Scada30(rows, thirtyMinSeconds)
	assert.Empty(t, out, "endpoint already at or below watermark is not reprocessed")
}

func TestScada30MeanOfAvailableSamples(t *testing.T) {
	endpoint := int64(thirtyMinSeconds)
	rows := []parquet.ScadaRow{
		{Settlement: fiveMinSeconds, DUID: "X", ScadaValue: 10},
		{Settlement: 2 * fiveMinSeconds, DUID: "X", ScadaValue: 20},
	}
	out := Scada30(rows, -1)
	require.Len(t, out, 1)
	assert.Equal(t, endpoint, out[0].Settlement)
	assert.Equal(t, 15.0, out[0].ScadaValue, "mean of the two available samples, not six")
}

// S5 - Rooftop interpolation.
func TestRooftop5InterpolatesBetweenAnchors(t *testing.T) {
	t0 := int64(10 * 3600)
	rows := []parquet.RooftopRow{
		{Settlement: t0, RegionID: "VIC1", Power: 600},
		{Settlement: t0 + thirtyMinSeconds, RegionID: "VIC1", Power: 720},
	}

	out := Rooftop5(rows)

	var firstBlock []float64
	for _, r := range out {
		if r.Settlement >= t0 && r.Settlement < t0+thirtyMinSeconds {
			firstBlock = append(firstBlock, r.Power)
		}
	}
	assert.Equal(t, []float64{600, 620, 640, 660, 680, 700}, firstBlock)
}

func TestRooftop5NowcastWithoutSuccessor(t *testing.T) {
	t0 := int64(10 * 3600)
	rows := []parquet.RooftopRow{{Settlement: t0, RegionID: "NSW1", Power: 42}}

	out := Rooftop5(rows)
	require.Len(t, out, 6)
	for _, r := range out {
		assert.Equal(t, 42.0, r.Power)
	}
}
