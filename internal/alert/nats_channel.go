// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alert

import (
	"encoding/json"
	"fmt"

	"github.com/aemodata/updater/pkg/nats"
)

// NatsChannel publishes alerts as JSON to a fixed NATS subject, for the
// out-of-scope status/monitoring UI (and any other subscriber) to consume.
type NatsChannel struct {
	client  *nats.Client
	subject string
}

func NewNatsChannel(client *nats.Client, subject string) *NatsChannel {
	return &NatsChannel{client: client, subject: subject}
}

type natsAlertPayload struct {
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Severity  string            `json:"severity"`
	Source    string            `json:"source"`
	Timestamp string            `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (c *NatsChannel) Send(a Alert) error {
	payload := natsAlertPayload{
		Title:     a.Title,
		Message:   a.Message,
		Severity:  string(a.Severity),
		Source:    a.Source,
		Timestamp: a.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Metadata:  a.Metadata,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("nats channel: marshal: %w", err)
	}

	return c.client.Publish(c.subject, data)
}
