// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package schema

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/aemodata/updater/pkg/log"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

type Kind int

const (
	// Config validates the program configuration file.
	Config Kind = iota + 1
	// StagingManifest selects the backfill staging-manifest schema. No code
	// in this module writes or validates a staging manifest.
	StagingManifest
)

//go:embed schemas/*
var schemaFiles embed.FS

func Load(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	f := path.Join(u.Host, u.Path)
	return schemaFiles.Open(f)
}

func init() {
	jsonschema.Loaders["embedfs"] = Load
}

// Validate decodes r as JSON and validates it against the embedded schema
// identified by k.
func Validate(k Kind, r io.Reader) (err error) {
	var s *jsonschema.Schema

	switch k {
	case Config:
		s, err = jsonschema.Compile("embedFS://schemas/config.schema.json")
	case StagingManifest:
		s, err = jsonschema.Compile("embedFS://schemas/staging-manifest.schema.json")
	default:
		return fmt.Errorf("schema.Validate: unknown kind %d", k)
	}

	if err != nil {
		return err
	}

	var v interface{}
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		log.Errorf("schema.Validate() - failed to decode: %v", err)
		return err
	}

	if err = s.Validate(v); err != nil {
		return fmt.Errorf("schema.Validate() - %w", err)
	}

	return nil
}
