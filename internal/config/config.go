// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/aemodata/updater/pkg/log"
	"github.com/aemodata/updater/pkg/schema"
)

// Keys holds the global program configuration, populated with defaults and
// then overlaid by the JSON config file passed to Init.
var Keys schema.ProgramConfig = schema.ProgramConfig{
	DataPath:              "./var/data",
	UpdateIntervalSeconds: 270,
	MaxRetries:            3,
	RetryDelaySeconds:     10,
	RequestTimeoutSeconds: 60,
	RetentionDays:         map[string]schema.Retention{},
	EnableEmailAlerts:     false,
	AlertThrottleMinutes:  60,
	AlertHistoryPath:      "./var/alert_history.json",
	KnownDuidsPath:        "./var/known_duids.txt",
	AdminAddr:             ":9090",
	Gops:                  false,
	Validate:              false,
}

// Init reads flagConfigFile, always validates it against the embedded
// config schema (Keys.Validate does not affect this), and decodes it over
// the defaults in Keys. A missing file is not an error: the
// defaults above are used as-is.
func Init(flagConfigFile string) {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("config: reading %s: %v", flagConfigFile, err)
		}
		return
	}

	if err := schema.Validate(schema.Config, bytes.NewReader(raw)); err != nil {
		log.Fatalf("config: validate %s: %v", flagConfigFile, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		log.Fatalf("config: decode %s: %v", flagConfigFile, err)
	}

	if Keys.DataPath == "" {
		log.Fatal("config: data_path is required")
	}
}
