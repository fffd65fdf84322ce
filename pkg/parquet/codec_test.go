// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parquet

import "testing"

func TestWriteReadRowsRoundtrip(t *testing.T) {
	rows := []PriceRow{
		{Settlement: 200, RegionID: "VIC1", RRP: 45.2},
		{Settlement: 100, RegionID: "NSW1", RRP: 30.1},
		{Settlement: 100, RegionID: "VIC1", RRP: 31.0},
	}

	data, err := WriteRows(rows, "settlementdate", "regionid")
	if err != nil {
		t.Fatalf("WriteRows: %v", err)
	}

	got, err := ReadRows[PriceRow](data)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}

	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}

	// Rows come back sorted by (settlementdate, regionid).
	want := []PriceRow{
		{Settlement: 100, RegionID: "NSW1", RRP: 30.1},
		{Settlement: 100, RegionID: "VIC1", RRP: 31.0},
		{Settlement: 200, RegionID: "VIC1", RRP: 45.2},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadRowsEmpty(t *testing.T) {
	got, err := ReadRows[ScadaRow](nil)
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 rows, got %d", len(got))
	}
}
