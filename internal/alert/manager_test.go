// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alert

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	sent     []Alert
	fail     bool
	attempts int
}

func (c *recordingChannel) Send(a Alert) error {
	c.attempts++
	if c.fail {
		return fmt.Errorf("boom")
	}
	c.sent = append(c.sent, a)
	return nil
}

func TestSendDeliversToChannel(t *testing.T) {
	ch := &recordingChannel{}
	m, err := NewManager([]Channel{ch}, time.Hour, filepath.Join(t.TempDir(), "hist.json"))
	require.NoError(t, err)

	m.Send(Alert{Title: "new duids", Source: "scada5", Severity: Info})
	assert.Len(t, ch.sent, 1)
}

func TestSendThrottlesRepeatedAlert(t *testing.T) {
	ch := &recordingChannel{}
	m, err := NewManager([]Channel{ch}, time.Hour, filepath.Join(t.TempDir(), "hist.json"))
	require.NoError(t, err)

	a := Alert{Title: "data stale", Source: "prices5", Severity: Warning}
	m.Send(a)
	m.Send(a)
	assert.Len(t, ch.sent, 1, "second send within the throttle window is suppressed")
}

func TestSendPersistsHistoryAcrossManagers(t *testing.T) {
	histPath := filepath.Join(t.TempDir(), "hist.json")
	ch := &recordingChannel{}
	m1, err := NewManager([]Channel{ch}, time.Hour, histPath)
	require.NoError(t, err)
	m1.Send(Alert{Title: "x", Source: "y", Severity: Error})

	ch2 := &recordingChannel{}
	m2, err := NewManager([]Channel{ch2}, time.Hour, histPath)
	require.NoError(t, err)
	m2.Send(Alert{Title: "x", Source: "y", Severity: Error})

	assert.Empty(t, ch2.sent, "throttle history loaded from disk suppresses the repeat")
}

func TestSendDoesNotThrottleAfterDeliveryFailure(t *testing.T) {
	ch := &recordingChannel{fail: true}
	m, err := NewManager([]Channel{ch}, time.Hour, filepath.Join(t.TempDir(), "hist.json"))
	require.NoError(t, err)

	a := Alert{Title: "x", Source: "y", Severity: Error}
	m.Send(a)
	m.Send(a)
	// Both sends attempted delivery since neither succeeded (nothing to throttle on).
	assert.Equal(t, 2, ch.attempts)
}
