// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aemodata/updater/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorConsumesOnlyFreshFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Write([]byte(`<a href="a.zip">a</a><a href="b.zip">b</a>`))
			return
		}
		w.Write([]byte("body:" + r.URL.Path))
	}))
	defer srv.Close()

	client := fetcher.New(fetcher.Config{})
	var processed []string
	c := NewCollector("test", srv.URL+"/", client, func(ctx context.Context, body []byte) (int, error) {
		processed = append(processed, string(body))
		return 1, nil
	})

	n, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, processed, 2)

	// Second cycle with the same listing: both files already seen.
	n, err = c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, processed, 2)
}

// Ordering guarantee (§4.F, §5): a derived job must observe the effect of
// this cycle's 5-minute collectors.
func TestRunCycleOrdersFiveMinBeforeDerived(t *testing.T) {
	var order []string
	s := New(time.Hour,
		[]CycleTask{{Dataset: "scada5", Run: func(ctx context.Context) (int, error) {
			order = append(order, "scada5")
			return 1, nil
		}}},
		[]CycleTask{{Dataset: "prices30", Run: func(ctx context.Context) (int, error) {
			order = append(order, "prices30")
			return 1, nil
		}}},
		[]CycleTask{{Dataset: "scada30", Run: func(ctx context.Context) (int, error) {
			order = append(order, "scada30")
			return 1, nil
		}}},
	)

	s.runCycle(context.Background())

	assert.Equal(t, []string{"scada5", "prices30", "scada30"}, order)
	report := s.LastReport()
	assert.Len(t, report.Collectors, 3)
	assert.True(t, report.Collectors["scada5"].LastUpdateSuccess)
}

func TestRunCycleRecordsFailure(t *testing.T) {
	s := New(time.Hour,
		[]CycleTask{{Dataset: "broken", Run: func(ctx context.Context) (int, error) {
			return 0, assert.AnError
		}}},
		nil, nil,
	)

	s.runCycle(context.Background())

	report := s.LastReport()
	cr := report.Collectors["broken"]
	assert.False(t, cr.LastUpdateSuccess)
	assert.NotEmpty(t, cr.LastError)
}
