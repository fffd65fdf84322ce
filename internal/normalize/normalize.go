// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package normalize implements the per-dataset normalizers (§4.D): pure
// functions that turn an mmscsv.Table into a canonical, typed row slice,
// filtered to permitted domain values and deduplicated on the dataset's
// primary key.
package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Regions is the fixed set of regions permitted in region-keyed datasets.
var Regions = map[string]bool{
	"NSW1": true,
	"QLD1": true,
	"SA1":  true,
	"TAS1": true,
	"VIC1": true,
}

const mmsTimeLayout = "2006/01/02 15:04:05"

// parseSettlement parses an MMS-format timestamp into Unix seconds. Returns
// ok=false if the value does not parse.
func parseSettlement(v string) (int64, bool) {
	t, err := time.Parse(mmsTimeLayout, strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}

func parseFloat(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
