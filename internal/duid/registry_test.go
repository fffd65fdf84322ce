// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duid

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "known_duids.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestDiffAndUnionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_duids.txt")
	r, err := Load(path)
	require.NoError(t, err)

	fresh := r.Diff(map[string]bool{"BATT1": true, "WF1": true})
	assert.ElementsMatch(t, []string{"BATT1", "WF1"}, fresh)

	require.NoError(t, r.Union(fresh))
	assert.Equal(t, 2, r.Len())

	// Reloading from disk should see the same set.
	r2, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, r2.Diff(map[string]bool{"BATT1": true}))
	assert.Equal(t, 2, r2.Len())
}

func TestDiffOnlyReportsUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_duids.txt")
	r, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, r.Union([]string{"BATT1"}))

	fresh := r.Diff(map[string]bool{"BATT1": true, "WF2": true})
	assert.Equal(t, []string{"WF2"}, fresh)
}
