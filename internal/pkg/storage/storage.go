package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidPath  = errors.New("invalid file path")
	ErrFileNotFound = errors.New("file not found")
)

// FileStorage stores logos and generated exports. Paths are slash-separated
// keys relative to the storage root.
type FileStorage interface {
	// Upload streams file to path and returns the cleaned key
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Put writes an in-memory payload such as a rendered CSV or PDF
	Put(ctx context.Context, data []byte, path string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// GetURL returns the public URL under which path is served
	GetURL(path string) string

	Exists(ctx context.Context, path string) (bool, error)
}
