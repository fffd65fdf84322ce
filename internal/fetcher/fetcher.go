// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fetcher implements the HTTP discovery and download client used to
// poll AEMO/NEMWEB report directories (§4.A). It never fails a whole cycle:
// every error is scoped to a single URL and classified into one of the
// kinds below so callers can decide whether to retry, skip, or log.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aemodata/updater/pkg/log"
	"golang.org/x/time/rate"
)

const userAgent = "AEMO Dashboard Data Collector"

var anchorRe = regexp.MustCompile(`(?i)href="([^"?/][^"]*)"`)

// Kind classifies a fetch failure per §7's error taxonomy.
type Kind int

const (
	// NotFound means the resource does not exist (404). For current-directory
	// polls this means no new data yet; for backfill it means the day is
	// unavailable.
	NotFound Kind = iota + 1
	// Unavailable means retries were exhausted after transient failures
	// (timeout, 5xx, 429).
	Unavailable
	// Protocol means an HTTP status other than 200/404/5xx/429 was returned.
	Protocol
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Unavailable:
		return "unavailable"
	case Protocol:
		return "protocol error"
	default:
		return "unknown"
	}
}

// Error wraps a fetch failure with its Kind and the URL involved.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetcher: %s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("fetcher: %s: %s", e.Kind, e.URL)
}

func (e *Error) Unwrap() error { return e.Err }

// Config controls retry policy and timeouts. Zero values fall back to the
// defaults in §6's configuration surface.
type Config struct {
	MaxRetries        int
	RetryDelay        time.Duration
	RequestTimeout    time.Duration
	ListingTimeout    time.Duration
	MinFileInterval   time.Duration // courtesy delay between per-file downloads
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 10 * time.Second
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.ListingTimeout <= 0 {
		c.ListingTimeout = 30 * time.Second
	}
	if c.MinFileInterval <= 0 {
		c.MinFileInterval = 100 * time.Millisecond
	}
	return c
}

// Client is the HTTP fetcher used by collectors and the backfill driver.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Client with the given configuration.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{},
		// One token per MinFileInterval, used to pace per-file downloads.
		limiter: rate.NewLimiter(rate.Every(cfg.MinFileInterval), 1),
	}
}

// List fetches url (an upstream directory index) and returns the basenames
// of the anchor hrefs found in the returned HTML, sorted. Hrefs starting
// with "/" or "?" and directory links ending in "/" are skipped.
func (c *Client) List(ctx context.Context, url string) ([]string, error) {
	body, err := c.doWithRetry(ctx, url, c.cfg.ListingTimeout)
	if err != nil {
		return nil, err
	}

	matches := anchorRe.FindAllStringSubmatch(string(body), -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasSuffix(m[1], "/") {
			continue
		}
		names = append(names, path.Base(m[1]))
	}
	sort.Strings(names)
	return names, nil
}

// Get fetches url and returns its body, honoring the inter-file rate limit.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.doWithRetry(ctx, url, c.cfg.RequestTimeout)
}

func (c *Client) doWithRetry(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Debugf("fetcher: retrying %s (attempt %d/%d)", url, attempt, c.cfg.MaxRetries)
			select {
			case <-time.After(c.cfg.RetryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, kind, err := c.doOnce(ctx, url, timeout)
		if err == nil {
			return body, nil
		}

		if kind == NotFound || kind == Protocol {
			// Not retryable: surface immediately.
			return nil, &Error{Kind: kind, URL: url, Err: err}
		}

		lastErr = err
	}

	return nil, &Error{Kind: Unavailable, URL: url, Err: lastErr}
}

func (c *Client) doOnce(ctx context.Context, url string, timeout time.Duration) ([]byte, Kind, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, Protocol, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Unavailable, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NotFound, fmt.Errorf("404")
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, Unavailable, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, Protocol, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Unavailable, fmt.Errorf("read body: %w", err)
	}
	return body, 0, nil
}
