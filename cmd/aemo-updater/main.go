// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aemodata/updater/internal/alert"
	"github.com/aemodata/updater/internal/config"
	"github.com/aemodata/updater/internal/datasets"
	"github.com/aemodata/updater/internal/duid"
	"github.com/aemodata/updater/internal/fetcher"
	"github.com/aemodata/updater/internal/metrics"
	"github.com/aemodata/updater/internal/runtimeEnv"
	"github.com/aemodata/updater/internal/scheduler"
	"github.com/aemodata/updater/internal/store"
	"github.com/aemodata/updater/pkg/log"
	"github.com/aemodata/updater/pkg/nats"
	"github.com/aemodata/updater/pkg/schema"
	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var flagConfigFile, flagVerify string
	var flagGops bool
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Overwrite the default config options by those specified in `config.json`")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.StringVar(&flagVerify, "verify", "", "Run a one-off consistency check (SUPPLEMENTED FEATURE #3) on `dataset` and exit")
	flag.Parse()

	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := runtimeEnv.LoadEnv("./.env"); err != nil && !os.IsNotExist(err) {
		log.Fatalf("parsing './.env' file failed: %s", err.Error())
	}

	config.Init(flagConfigFile)
	cfg := config.Keys

	retention := make(map[string]int, len(cfg.RetentionDays))
	for dataset, r := range cfg.RetentionDays {
		retention[dataset] = r.Days
	}
	st, err := store.New(cfg.DataPath, store.WithRetention(retention))
	if err != nil {
		log.Fatal(err)
	}

	if flagVerify != "" {
		runVerify(st, flagVerify)
		return
	}

	client := fetcher.New(fetcher.Config{
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     time.Duration(cfg.RetryDelaySeconds) * time.Second,
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	})

	registry, err := duid.Load(cfg.KnownDuidsPath)
	if err != nil {
		log.Fatalf("duid registry: %s", err.Error())
	}
	metrics.KnownDUIDs.Set(float64(registry.Len()))

	alerts, err := alert.NewManager(
		buildChannels(cfg),
		time.Duration(cfg.AlertThrottleMinutes)*time.Minute,
		cfg.AlertHistoryPath,
	)
	if err != nil {
		log.Fatalf("alert manager: %s", err.Error())
	}

	scada30Job, err := scheduler.NewScada30Job(st)
	if err != nil {
		log.Fatalf("scada30 job: %s", err.Error())
	}

	sched := scheduler.New(
		time.Duration(cfg.UpdateIntervalSeconds)*time.Second,
		[]scheduler.CycleTask{
			scheduler.NewDispatchISCollector(client, st).Task(),
			scheduler.NewScadaCollector(client, st, registry, alerts).Task(),
			scheduler.NewNextDayDispatchCollector(client, st).Task(),
		},
		[]scheduler.CycleTask{
			scheduler.NewTradingISCollector(client, st).Task(),
			scheduler.NewRooftopCollector(client, st).Task(),
			scheduler.NewDemandCollector(client, st).Task(),
		},
		[]scheduler.CycleTask{
			scada30Job,
			scheduler.NewRooftop5Job(st),
		},
	)
	sched.OnCycleComplete = func(r scheduler.CycleReport) {
		metrics.KnownDUIDs.Set(float64(registry.Len()))
		outcomes := make(map[string]metrics.DatasetOutcome, len(r.Collectors))
		for dataset, c := range r.Collectors {
			outcomes[dataset] = metrics.DatasetOutcome{RowsAdded: c.RecordsAdded, Success: c.LastUpdateSuccess}
			if !c.LastUpdateSuccess {
				alerts.Send(alert.Alert{
					Title:    fmt.Sprintf("%s collector failed", dataset),
					Message:  c.LastError,
					Severity: alert.Error,
					Source:   dataset,
				})
			}
		}
		metrics.RecordCycle(r.Duration.Seconds(), outcomes)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx); err != nil {
		log.Fatalf("scheduler: %s", err.Error())
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sched.LastReport())
	})

	adminServer := &http.Server{
		Addr:         cfg.AdminAddr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("admin endpoint listening at %s", cfg.AdminAddr)
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("admin endpoint: %s", err.Error())
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	runtimeEnv.SystemdNotifiy(false, "shutting down")
	cancel()
	adminServer.Shutdown(context.Background())
	if err := sched.Shutdown(); err != nil {
		log.Warnf("scheduler shutdown: %s", err.Error())
	}
	log.Print("Graceful shutdown completed!")
}

// buildChannels assembles the alert delivery channels from configuration.
// NATS is preferred when configured; email is opt-in per
// enable_email_alerts; SMS remains a permanent stub (Twilio is out of
// scope per §6).
func buildChannels(cfg schema.ProgramConfig) []alert.Channel {
	var channels []alert.Channel

	if cfg.Nats != nil && cfg.Nats.Address != "" {
		client, err := nats.NewClient(&nats.NatsConfig{
			Address:       cfg.Nats.Address,
			Username:      cfg.Nats.Username,
			Password:      cfg.Nats.Password,
			CredsFilePath: cfg.Nats.CredsFilePath,
		})
		if err != nil {
			log.Warnf("alert: NATS channel unavailable: %s", err.Error())
		} else {
			subject := cfg.Nats.Subject
			if subject == "" {
				subject = "aemo.alerts"
			}
			channels = append(channels, alert.NewNatsChannel(client, subject))
		}
	}

	if cfg.EnableEmailAlerts && cfg.Smtp != nil {
		channels = append(channels, alert.NewEmailChannel(
			cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From, cfg.Smtp.To,
		))
	}

	channels = append(channels, &alert.SMSChannel{})
	return channels
}

func runVerify(st *store.Store, dataset string) {
	report, err := datasets.Verify(st, dataset)
	if err != nil {
		log.Fatalf("verify: %s", err.Error())
	}
	log.Infof("verify %s: %d rows, %d duplicate keys, %d out of order, %d gaps",
		dataset, report.RowCount, report.DuplicateKeys, report.OutOfOrder, report.Gaps)
	if !report.OK() {
		os.Exit(1)
	}
}
