// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alert

import "github.com/aemodata/updater/pkg/log"

// SMSChannel is a stub: §6 lists SMS delivery (Twilio in the original
// implementation) as an out-of-scope external collaborator. It satisfies
// the Channel interface so a Manager can be wired with it, but only logs —
// no SMS provider dependency is part of this module.
type SMSChannel struct{}

func NewSMSChannel() *SMSChannel { return &SMSChannel{} }

func (c *SMSChannel) Send(a Alert) error {
	log.Infof("alert: sms channel stub, not configured: %s: %s", a.Source, a.Title)
	return nil
}
