// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package parquet

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Target abstracts the destination for a canonical dataset file or a
// backfill pre-merge backup write.
type Target interface {
	WriteFile(name string, data []byte) error
	ReadFile(name string) ([]byte, error)
}

// FileTarget reads and writes files in a local filesystem directory.
type FileTarget struct {
	path string
}

func NewFileTarget(path string) (*FileTarget, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create target directory: %w", err)
	}
	return &FileTarget{path: path}, nil
}

func (ft *FileTarget) WriteFile(name string, data []byte) error {
	return os.WriteFile(filepath.Join(ft.path, name), data, 0o640)
}

func (ft *FileTarget) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(ft.path, name))
}

// S3TargetConfig holds the configuration for an S3-compatible target.
type S3TargetConfig struct {
	Endpoint     string
	Bucket       string
	AccessKey    string
	SecretKey    string
	Region       string
	UsePathStyle bool
}

// S3Target reads and writes objects to an S3-compatible object store, used
// for the optional backfill pre-merge backup (§4.I stage 5).
type S3Target struct {
	client *s3.Client
	bucket string
}

func NewS3Target(cfg S3TargetConfig) (*S3Target, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 target: empty bucket name")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("S3 target: load AWS config: %w", err)
	}

	opts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}

	client := s3.NewFromConfig(awsCfg, opts)
	return &S3Target{client: client, bucket: cfg.Bucket}, nil
}

func (st *S3Target) WriteFile(name string, data []byte) error {
	_, err := st.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(st.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/vnd.apache.parquet"),
	})
	if err != nil {
		return fmt.Errorf("S3 target: put object %q: %w", name, err)
	}
	return nil
}

func (st *S3Target) ReadFile(name string) ([]byte, error) {
	out, err := st.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(st.bucket),
		Key:    aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 target: get object %q: %w", name, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("S3 target: read object %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
