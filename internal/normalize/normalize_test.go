// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package normalize

import (
	"testing"

	"github.com/aemodata/updater/internal/mmscsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scan(t *testing.T, csvText, table string) *mmscsv.Table {
	t.Helper()
	tbl, err := mmscsv.Scan([]byte(csvText), table)
	require.NoError(t, err)
	return tbl
}

func TestPricesRestrictsRegionsAndDedups(t *testing.T) {
	csvText := `I,DISPATCH,PRICE,1,SETTLEMENTDATE,REGIONID,RRP
D,DISPATCH,PRICE,1,2026/01/01 00:05:00,NSW1,50
D,DISPATCH,PRICE,1,2026/01/01 00:05:00,NSW1,51
D,DISPATCH,PRICE,1,2026/01/01 00:05:00,FAKE1,99
`
	rows := Prices(scan(t, csvText, "PRICE"))
	require.Len(t, rows, 1)
	assert.Equal(t, "NSW1", rows[0].RegionID)
	assert.Equal(t, 51.0, rows[0].RRP, "later duplicate wins")
}

func TestScadaRetainsNegativeValues(t *testing.T) {
	csvText := `I,DISPATCH,UNIT_SCADA,1,SETTLEMENTDATE,DUID,SCADAVALUE
D,DISPATCH,UNIT_SCADA,1,2026/01/01 00:05:00,BATT1,-42.5
D,DISPATCH,UNIT_SCADA,1,2026/01/01 00:05:00,BW01,notanumber
`
	res := Scada(scan(t, csvText, "UNIT_SCADA"))
	require.Len(t, res.Rows, 1)
	assert.Equal(t, -42.5, res.Rows[0].ScadaValue)
	assert.True(t, res.DUIDs["BATT1"])
	assert.False(t, res.DUIDs["BW01"], "unparseable row dropped before DUID set update")
}

func TestTransmissionFillsMissingColumns(t *testing.T) {
	csvText := `I,DISPATCH,INTERCONNECTORRES,1,SETTLEMENTDATE,INTERCONNECTORID,METEREDMWFLOW
D,DISPATCH,INTERCONNECTORRES,1,2026/01/01 00:05:00,NSW1-QLD1,120.5
`
	rows := Transmission(scan(t, csvText, "INTERCONNECTORRES"))
	require.Len(t, rows, 1)
	assert.Equal(t, 120.5, rows[0].MeteredMWFlow)
	assert.Equal(t, 0.0, rows[0].MWFlow)
}

func TestCurtailmentRules(t *testing.T) {
	csvText := `I,DISPATCH,UNIT_SOLUTION,1,SETTLEMENTDATE,DUID,AVAILABILITY,TOTALCLEARED,SEMIDISPATCHCAP
D,DISPATCH,UNIT_SOLUTION,1,2026/01/01 00:05:00,WF01,100,80,1
D,DISPATCH,UNIT_SOLUTION,1,2026/01/01 00:05:00,SF01,0.5,0,1
D,DISPATCH,UNIT_SOLUTION,1,2026/01/01 00:05:00,WF02,100,80,0
D,DISPATCH,UNIT_SOLUTION,1,2026/01/01 00:05:00,BW01,100,80,1
`
	rows := Curtailment(scan(t, csvText, "UNIT_SOLUTION"))
	byDUID := map[string]float64{}
	for _, r := range rows {
		byDUID[r.DUID] = r.Curtailment
	}
	assert.Equal(t, 20.0, byDUID["WF01"], "wind curtailment = availability - totalcleared")
	assert.Equal(t, 0.0, byDUID["SF01"], "solar night filter: availability <= 1MW")
	assert.Contains(t, byDUID, "WF02", "semidispatchcap=0 still included with curtailment 0")
	assert.NotContains(t, byDUID, "BW01", "non-renewable DUID excluded")
}

func TestCurtailmentSemiDispatchCapZeroIsIncludedWithZero(t *testing.T) {
	csvText := `I,DISPATCH,UNIT_SOLUTION,1,SETTLEMENTDATE,DUID,AVAILABILITY,TOTALCLEARED,SEMIDISPATCHCAP
D,DISPATCH,UNIT_SOLUTION,1,2026/01/01 00:05:00,WF02,100,80,0
`
	rows := Curtailment(scan(t, csvText, "UNIT_SOLUTION"))
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Curtailment)
}

func TestRegionalCurtailmentDefaultsMissingToZero(t *testing.T) {
	csvText := `I,DISPATCH,REGIONSUM,1,SETTLEMENTDATE,REGIONID,SS_SOLAR_UIGF,SS_SOLAR_CLEAREDMW
D,DISPATCH,REGIONSUM,1,2026/01/01 00:05:00,VIC1,500,450
`
	rows := RegionalCurtailment(scan(t, csvText, "REGIONSUM"))
	require.Len(t, rows, 1)
	assert.Equal(t, 50.0, rows[0].SolarCurtailment)
	assert.Equal(t, 0.0, rows[0].WindCurtailment)
	assert.Equal(t, 50.0, rows[0].TotalCurtailment)
}

func TestRooftopDropsNegativePower(t *testing.T) {
	csvText := `I,ROOFTOP,ACTUAL,1,INTERVAL_DATETIME,REGIONID,POWER
D,ROOFTOP,ACTUAL,1,2026/01/01 00:30:00,VIC1,-5
D,ROOFTOP,ACTUAL,1,2026/01/01 00:30:00,NSW1,120.4
`
	rows := Rooftop(scan(t, csvText, "ACTUAL"))
	require.Len(t, rows, 1)
	assert.Equal(t, "NSW1", rows[0].RegionID)
}

func TestDemandReadsPositionalColumns(t *testing.T) {
	csvText := `I,OPERATIONAL_DEMAND,ACTUAL,1,REGIONID,INTERVAL_DATETIME,OPERATIONAL_DEMAND
D,OPERATIONAL_DEMAND,ACTUAL,1,QLD1,2026/01/01 00:30:00,6500.25
`
	rows := Demand(scan(t, csvText, "ACTUAL"))
	require.Len(t, rows, 1)
	assert.Equal(t, "QLD1", rows[0].RegionID)
	assert.Equal(t, 6500.25, rows[0].Demand)
}

func TestDemandRejectsOffGridSpacing(t *testing.T) {
	csvText := `I,OPERATIONAL_DEMAND,ACTUAL,1,REGIONID,INTERVAL_DATETIME,OPERATIONAL_DEMAND
D,OPERATIONAL_DEMAND,ACTUAL,1,QLD1,2026/01/01 00:17:00,6500.25
D,OPERATIONAL_DEMAND,ACTUAL,1,QLD1,2026/01/01 00:30:00,6600.0
`
	rows := Demand(scan(t, csvText, "ACTUAL"))
	require.Len(t, rows, 1, "only the on-grid sample survives")
	assert.Equal(t, 6600.0, rows[0].Demand)
}
