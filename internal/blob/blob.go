// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

// Package blob stores the bodies of uploaded library workflows. Backends are
// a local directory tree and any S3-compatible object store.
package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/altafpasha/n8n-dashboard/internal/config"
)

// ErrNotFound is returned by Get when no object exists at the key.
var ErrNotFound = errors.New("blob: object not found")

// ErrInvalidKey is returned for keys that are empty, absolute or escape the
// store root.
var ErrInvalidKey = errors.New("blob: invalid key")

// Store is an object store addressed by slash-separated keys such as
// "<user>/<millis>-<name>.json".
type Store interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Open builds the Store selected by cfg.Backend, wrapped with zstd
// compression when cfg.Compress is set.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", "fs":
		s, err = NewFSStore(cfg.Dir)
	case "s3":
		s, err = NewS3Store(ctx, S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
	default:
		return nil, fmt.Errorf("blob: unsupported storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	if cfg.Compress {
		return NewCompressed(s)
	}
	return s, nil
}
