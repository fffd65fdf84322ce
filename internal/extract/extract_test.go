// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestZipSingleLevel(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"PUBLIC_DISPATCHIS_202601010000_001.CSV": []byte("csv-a"),
		"README.txt":                             []byte("ignored"),
	})

	entries, err := Zip(data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "PUBLIC_DISPATCHIS_202601010000_001.CSV", entries[0].Name)
	assert.Equal(t, "csv-a", string(entries[0].Data))
}

func TestZipNested(t *testing.T) {
	inner1 := buildZip(t, map[string][]byte{"a.csv": []byte("1")})
	inner2 := buildZip(t, map[string][]byte{"b.csv": []byte("2")})

	outer := buildZip(t, map[string][]byte{
		"PUBLIC_DISPATCHIS_202601010000.zip": inner1,
		"PUBLIC_DISPATCHIS_202601010005.zip": inner2,
	})

	entries, err := Zip(outer)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"a.csv", "b.csv"}, names)
}

func TestTimestamp(t *testing.T) {
	cases := map[string]string{
		"PUBLIC_DISPATCHIS_202601010005_00000000.zip": "202601010005",
		"PUBLIC_DISPATCHSCADA_202601311230_legacy.zip": "202601311230",
		"tooshort_ab_c.zip":                            "",
		"onlyonepart.zip":                               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Timestamp(in), in)
	}
}
