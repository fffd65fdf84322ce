// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alert

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aemodata/updater/pkg/log"
)

// Manager fans an Alert out to every configured Channel, subject to
// per-key throttling persisted across restarts.
type Manager struct {
	channels []Channel
	throttle time.Duration
	histPath string

	mu   sync.Mutex
	sent map[string]time.Time
}

// NewManager loads any existing throttle history from histPath. A missing
// file is not an error; it means no alert has ever been sent.
func NewManager(channels []Channel, throttle time.Duration, histPath string) (*Manager, error) {
	m := &Manager{channels: channels, throttle: throttle, histPath: histPath, sent: make(map[string]time.Time)}

	data, err := os.ReadFile(histPath)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("alert: load history %s: %w", histPath, err)
	}

	raw := make(map[string]time.Time)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("alert: parse history %s: %w", histPath, err)
	}
	m.sent = raw
	return m, nil
}

// Send delivers a to every channel unless it was already sent within the
// throttle window. A channel's delivery failure is logged and does not
// prevent other channels from being tried, and never returns an error to
// the caller — per §4.J, "delivery failure does not fail the cycle".
func (m *Manager) Send(a Alert) {
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	m.mu.Lock()
	key := a.Key()
	if last, ok := m.sent[key]; ok && time.Since(last) < m.throttle {
		m.mu.Unlock()
		log.Debugf("alert: throttled %s", key)
		return
	}
	m.mu.Unlock()

	var delivered bool
	for _, ch := range m.channels {
		if err := ch.Send(a); err != nil {
			log.Warnf("alert: channel delivery failed for %s: %s", key, err.Error())
			continue
		}
		delivered = true
	}

	if !delivered {
		return
	}

	m.mu.Lock()
	m.sent[key] = a.Timestamp
	err := m.saveLocked()
	m.mu.Unlock()
	if err != nil {
		log.Warnf("alert: could not persist throttle history: %s", err.Error())
	}
}

func (m *Manager) saveLocked() error {
	data, err := json.MarshalIndent(m.sent, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(m.histPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := m.histPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.histPath)
}
