// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package scheduler

import (
	"context"
	"fmt"
	"sort"

	"github.com/aemodata/updater/internal/fetcher"
)

// Collector polls one upstream current-directory listing, keeps an
// in-memory set of filenames already processed this process lifetime, and
// hands each newly seen file's body to Process. The directory listing is
// diffed against this set and every unseen file is consumed in sorted
// order; Run does not limit a cycle to the newest files, so the first cycle
// after startup processes the whole listing.
type Collector struct {
	Dataset   string
	SourceURL string
	Process   func(ctx context.Context, body []byte) (rowsAdded int, err error)

	client *fetcher.Client
	seen   map[string]bool
}

// NewCollector builds a Collector that downloads files from sourceURL
// (an upstream directory index) using client.
func NewCollector(dataset, sourceURL string, client *fetcher.Client, process func(ctx context.Context, body []byte) (int, error)) *Collector {
	return &Collector{
		Dataset:   dataset,
		SourceURL: sourceURL,
		Process:   process,
		client:    client,
		seen:      make(map[string]bool),
	}
}

// Task adapts the Collector into a CycleTask for the scheduler.
func (c *Collector) Task() CycleTask {
	return CycleTask{Dataset: c.Dataset, Run: c.Run}
}

// Run lists SourceURL, downloads every not-yet-seen file in sorted order,
// and feeds each to Process. A download or process failure for one file
// stops the collector for this cycle but does not mark already-processed
// files as unseen; they are retried next cycle only if still listed and
// not yet marked seen, which cannot happen once c.seen records success.
func (c *Collector) Run(ctx context.Context) (int, error) {
	names, err := c.client.List(ctx, c.SourceURL)
	if err != nil {
		return 0, fmt.Errorf("%s: list: %w", c.Dataset, err)
	}

	fresh := make([]string, 0, len(names))
	for _, n := range names {
		if !c.seen[n] {
			fresh = append(fresh, n)
		}
	}
	sort.Strings(fresh)

	var added int
	for _, name := range fresh {
		body, err := c.client.Get(ctx, c.SourceURL+name)
		if err != nil {
			return added, fmt.Errorf("%s: get %s: %w", c.Dataset, name, err)
		}

		n, err := c.Process(ctx, body)
		if err != nil {
			return added, fmt.Errorf("%s: process %s: %w", c.Dataset, name, err)
		}

		added += n
		c.seen[name] = true
	}

	return added, nil
}
