// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mmscsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePriceCSV = `C,NEMP.WORLD,PUBLIC_DISPATCH,AEMO,PUBLIC_DISPATCH,2026/01/01,00:00:00
I,DISPATCH,PRICE,2,SETTLEMENTDATE,REGIONID,RRP
D,DISPATCH,PRICE,2,2026/01/01 00:05:00,NSW1,55.12
D,DISPATCH,PRICE,2,2026/01/01 00:05:00,VIC1,48.30
I,DISPATCH,UNIT_SCADA,1,SETTLEMENTDATE,DUID,SCADAVALUE
D,DISPATCH,UNIT_SCADA,1,2026/01/01 00:05:00,BW01,660.5
`

func TestScanFindsTargetTable(t *testing.T) {
	table, err := Scan([]byte(samplePriceCSV), "PRICE")
	require.NoError(t, err)
	assert.Equal(t, []string{"SETTLEMENTDATE", "REGIONID", "RRP"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "NSW1", table.Get(table.Rows[0], "REGIONID"))
	assert.Equal(t, "55.12", table.Get(table.Rows[0], "RRP"))
}

func TestScanIgnoresOtherTables(t *testing.T) {
	table, err := Scan([]byte(samplePriceCSV), "UNIT_SCADA")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "BW01", table.Get(table.Rows[0], "DUID"))
}

func TestScanMissingTableReturnsEmpty(t *testing.T) {
	table, err := Scan([]byte(samplePriceCSV), "NOPE"+"_TABLE")
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Empty(t, table.Columns)
}

func TestScanFirstIRowWins(t *testing.T) {
	csvText := `I,DISPATCH,PRICE,1,SETTLEMENTDATE,REGIONID,RRP
D,DISPATCH,PRICE,1,2026/01/01 00:05:00,NSW1,10
I,DISPATCH,PRICE,2,SETTLEMENTDATE,REGIONID,RRP,EXTRACOL
D,DISPATCH,PRICE,2,2026/01/01 00:10:00,NSW1,11,ignored
`
	table, err := Scan([]byte(csvText), "PRICE")
	require.NoError(t, err)
	assert.Equal(t, []string{"SETTLEMENTDATE", "REGIONID", "RRP"}, table.Columns)
	require.Len(t, table.Rows, 2)
}
