// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package aggregate implements the two derived-series jobs (§4.G, §4.H):
// the SCADA 5→30 minute mean aggregator and the rooftop 30→5 minute
// interpolator.
package aggregate

import (
	"sort"

	"github.com/aemodata/updater/internal/util"
	"github.com/aemodata/updater/pkg/parquet"
)

const (
	fiveMinSeconds   = 5 * 60
	thirtyMinSeconds = 30 * 60
)

// bucket30 returns the 30-minute grid mark that closes the window a sample
// at s belongs to: the smallest multiple of thirtyMinSeconds greater than
// or equal to s. A sample landing exactly on a grid mark closes its own
// window, consistent with meanInWindow's (start, end] convention.
func bucket30(s int64) int64 {
	if s%thirtyMinSeconds == 0 {
		return s
	}
	return (s/thirtyMinSeconds + 1) * thirtyMinSeconds
}

type scada30Key struct {
	endpoint int64
	duid     string
}

// Scada30 computes 30-minute SCADA endpoints from 5-minute samples, per
// §4.G. A sample with settlement > w marks its enclosing 30-minute window
// as due for (re)computation; for each such window and DUID, the mean
// scadavalue over (endpoint-30min, endpoint] is emitted using whichever of
// the up-to-six 5-min samples exist in history. The mean may be negative;
// it is never clamped.
func Scada30(scada5 []parquet.ScadaRow, w int64) []parquet.ScadaRow {
	byDUID := make(map[string][]parquet.ScadaRow)
	for _, r := range scada5 {
		byDUID[r.DUID] = append(byDUID[r.DUID], r)
	}

	due := make(map[scada30Key]bool)
	for _, r := range scada5 {
		if r.Settlement <= w {
			continue
		}
		due[scada30Key{bucket30(r.Settlement), r.DUID}] = true
	}

	keys := make([]scada30Key, 0, len(due))
	for k := range due {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].endpoint != keys[j].endpoint {
			return keys[i].endpoint < keys[j].endpoint
		}
		return keys[i].duid < keys[j].duid
	})

	var out []parquet.ScadaRow
	for _, k := range keys {
		mean, ok := meanInWindow(byDUID[k.duid], k.endpoint-thirtyMinSeconds, k.endpoint)
		if !ok {
			continue
		}
		out = append(out, parquet.ScadaRow{Settlement: k.endpoint, DUID: k.duid, ScadaValue: mean})
	}
	return out
}

// meanInWindow averages scadavalue over rows with start < settlement <= end.
func meanInWindow(rows []parquet.ScadaRow, start, end int64) (float64, bool) {
	var samples []float64
	for _, r := range rows {
		if r.Settlement > start && r.Settlement <= end {
			samples = append(samples, r.ScadaValue)
		}
	}
	mean, err := util.Mean(samples)
	if err != nil {
		return 0, false
	}
	return mean, true
}
