// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package alert implements the external notification interface named in
// §4.J/§6(ii): a channel-agnostic Alert type, delivery channels, and a
// persisted throttle store so the same condition is not re-notified more
// than once per throttle window (SUPPLEMENTED FEATURE #2, grounded on
// alert_manager.py's sent_alerts/_load_history/_save_history).
package alert

import (
	"fmt"
	"time"
)

// Severity classifies how urgently an alert needs human attention.
type Severity string

const (
	Info     Severity = "info"
	Warning  Severity = "warning"
	Error    Severity = "error"
	Critical Severity = "critical"
)

// Alert is one notification-worthy event.
type Alert struct {
	Title     string
	Message   string
	Severity  Severity
	Source    string // collector/component that raised it
	Timestamp time.Time
	Metadata  map[string]string
}

// Key is the throttle identity for an alert: same source+title within the
// throttle window is suppressed.
func (a Alert) Key() string {
	return fmt.Sprintf("%s:%s", a.Source, a.Title)
}

// Channel delivers an Alert. Implementations must not block indefinitely;
// delivery failure never fails the ingestion cycle that raised the alert.
type Channel interface {
	Send(a Alert) error
}
