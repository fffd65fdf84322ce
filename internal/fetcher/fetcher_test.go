// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListExtractsAnchors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(`<html><body>
			<a href="PUBLIC_DISPATCHIS_202601010000_001.zip">a</a>
			<a href="PUBLIC_DISPATCHIS_202601010005_001.zip">b</a>
			<a href="../">up</a>
		</body></html>`))
	}))
	defer srv.Close()

	c := New(Config{})
	names, err := c.List(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"PUBLIC_DISPATCHIS_202601010000_001.zip",
		"PUBLIC_DISPATCHIS_202601010005_001.zip",
	}, names)
}

func TestGetNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{MaxRetries: 3, RetryDelay: time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, NotFound, ferr.Kind)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetRetriesTransientThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{MaxRetries: 3, RetryDelay: time.Millisecond, MinFileInterval: time.Microsecond})
	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetExhaustsRetriesBecomesUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{MaxRetries: 2, RetryDelay: time.Millisecond})
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)

	var ferr *Error
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, Unavailable, ferr.Kind)
}
