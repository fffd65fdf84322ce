// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package schema

// SmtpConfig holds SMTP credentials used by the email alert channel.
type SmtpConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       []string `json:"to"`
}

// NatsAlertConfig mirrors pkg/nats.NatsConfig, kept separate so pkg/schema
// does not import pkg/nats (config is decoded here, applied there).
type NatsAlertConfig struct {
	Address       string `json:"address"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	CredsFilePath string `json:"creds-file-path"`
	Subject       string `json:"subject"`
}

// S3BackupConfig configures the optional S3 target used for backfill
// pre-merge backups (stage 5). When Bucket is empty, backups are written to
// the local filesystem instead.
type S3BackupConfig struct {
	Endpoint     string `json:"endpoint"`
	Bucket       string `json:"bucket"`
	AccessKey    string `json:"access-key"`
	SecretKey    string `json:"secret-key"`
	Region       string `json:"region"`
	UsePathStyle bool   `json:"use-path-style"`
}

// Retention describes the prune policy for one dataset's canonical file.
type Retention struct {
	// Days is the cutoff: rows older than now - Days may be pruned on save.
	// Zero means no pruning for this dataset.
	Days int `json:"days"`
}

// ProgramConfig is the format of the configuration file. See
// internal/config for defaults applied before the file is loaded.
type ProgramConfig struct {
	// Root directory for canonical dataset files ({dataset}.parquet).
	DataPath string `json:"data_path"`

	// Polling cadence of the scheduler, in seconds.
	UpdateIntervalSeconds int `json:"update_interval_seconds"`

	// HTTP retry policy for the fetcher.
	MaxRetries        int `json:"max_retries"`
	RetryDelaySeconds int `json:"retry_delay_seconds"`

	// HTTP body read timeout, in seconds.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`

	// Per-dataset retention policy. Keys are dataset names (prices5, scada30, ...).
	RetentionDays map[string]Retention `json:"retention_days"`

	// Alerting.
	EnableEmailAlerts bool            `json:"enable_email_alerts"`
	Smtp              *SmtpConfig     `json:"smtp"`
	Nats              *NatsAlertConfig `json:"nats"`
	AlertThrottleMinutes int          `json:"alert_throttle_minutes"`
	AlertHistoryPath     string       `json:"alert_history_path"`

	// Path to the known-DUID registry artifact.
	KnownDuidsPath string `json:"known_duids_path"`

	// Optional S3 target for backfill pre-merge backups; local filesystem
	// is used when this is nil.
	S3Backup *S3BackupConfig `json:"s3_backup"`

	// Admin mux address (/metrics, /healthz, /status).
	AdminAddr string `json:"admin_addr"`

	// Opt-in gops runtime introspection agent.
	Gops bool `json:"gops"`

	// Validate JSON input against the embedded JSON Schema before decoding.
	Validate bool `json:"validate"`
}
