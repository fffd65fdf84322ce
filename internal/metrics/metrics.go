// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes the ingestion engine's Prometheus counters and
// gauges, mounted at /metrics on the admin endpoint (§6).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aemo_updater_rows_added_total",
			Help: "Rows merged into a canonical dataset file, by dataset.",
		},
		[]string{"dataset"},
	)

	CollectorErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aemo_updater_collector_errors_total",
			Help: "Collector or derived-job failures, by dataset.",
		},
		[]string{"dataset"},
	)

	CycleDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aemo_updater_cycle_duration_seconds",
			Help:    "Wall-clock duration of one scheduler cycle.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	LastCycleSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aemo_updater_last_cycle_success",
			Help: "1 if the dataset's last cycle run succeeded, 0 otherwise.",
		},
		[]string{"dataset"},
	)

	KnownDUIDs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aemo_updater_known_duids",
			Help: "Number of generating units in the known-DUID registry.",
		},
	)
)

// RecordCycle updates all of the above from one completed CycleReport-shaped
// summary. Kept decoupled from internal/scheduler's type so that package
// never needs to import prometheus.
func RecordCycle(durationSeconds float64, perDataset map[string]DatasetOutcome) {
	CycleDurationSeconds.Observe(durationSeconds)
	for dataset, o := range perDataset {
		RowsAdded.WithLabelValues(dataset).Add(float64(o.RowsAdded))
		if o.Success {
			LastCycleSuccess.WithLabelValues(dataset).Set(1)
		} else {
			LastCycleSuccess.WithLabelValues(dataset).Set(0)
			CollectorErrors.WithLabelValues(dataset).Inc()
		}
	}
}

// DatasetOutcome is the minimal per-dataset result RecordCycle needs.
type DatasetOutcome struct {
	RowsAdded int
	Success   bool
}
