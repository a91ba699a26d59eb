// Package storage provides transient and persistent file storage for the
// conversion pipeline. It defines the Storage interface (port) for hexagonal
// architecture and implementations for local disk and S3 storage. Uploaded
// videos, intermediate palettes, and produced GIFs all move through temp
// files owned by this package.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for transient file storage during a
// conversion and optional S3 delivery of the produced GIF.
type Storage interface {
	// SaveTemp saves data to a temporary file and returns the file path.
	// The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// LoadTemp reads a temporary file and returns a reader.
	// The caller is responsible for closing the returned ReadCloser.
	LoadTemp(ctx context.Context, path string) (io.ReadCloser, error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// Upload pushes data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	Upload(ctx context.Context, key string, data io.Reader) (url string, err error)
}
