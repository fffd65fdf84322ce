// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package backfill

import "time"

// EnclosingThursday returns the Thursday that begins the weekly archive
// window containing t (SUPPLEMENTED FEATURE #4). AEMO's rooftop PV weekly
// archives are named for the Thursday each week starts on.
func EnclosingThursday(t time.Time) time.Time {
	// Normalize to Monday=0 .. Sunday=6 to mirror the original
	// implementation's Python weekday() arithmetic.
	weekday := (int(t.Weekday()) + 6) % 7
	daysSinceThursday := (weekday - 3 + 7) % 7
	return t.AddDate(0, 0, -daysSinceThursday)
}
