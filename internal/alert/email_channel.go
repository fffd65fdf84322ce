// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alert

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailChannel sends alerts over SMTP via net/smtp.SendMail, using PLAIN
// auth when Username is set and no auth otherwise. It is deliberately kept
// minimal: §6 lists email delivery as an
// out-of-scope external collaborator, so this exists to satisfy the
// Channel interface rather than to be a full mail client (no retries, no
// HTML bodies, no attachment support).
type EmailChannel struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func NewEmailChannel(host string, port int, username, password, from string, to []string) *EmailChannel {
	return &EmailChannel{Host: host, Port: port, Username: username, Password: password, From: from, To: to}
}

func (c *EmailChannel) Send(a Alert) error {
	if len(c.To) == 0 {
		return fmt.Errorf("email channel: no recipients configured")
	}

	subject := fmt.Sprintf("[%s] AEMO updater: %s", strings.ToUpper(string(a.Severity)), a.Title)
	var body strings.Builder
	fmt.Fprintf(&body, "Severity: %s\nSource: %s\nTime: %s\n\n%s\n",
		a.Severity, a.Source, a.Timestamp.Format("2006-01-02 15:04:05"), a.Message)
	for k, v := range a.Metadata {
		fmt.Fprintf(&body, "  %s: %s\n", k, v)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		c.From, strings.Join(c.To, ","), subject, body.String())

	addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
	var auth smtp.Auth
	if c.Username != "" {
		auth = smtp.PlainAuth("", c.Username, c.Password, c.Host)
	}
	return smtp.SendMail(addr, auth, c.From, c.To, []byte(msg))
}
