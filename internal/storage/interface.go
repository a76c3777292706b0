package storage

import (
	"context"
	"errors"
	"io"
)

var ErrFileNotFound = errors.New("file not found")

// Storage holds uploaded profile pictures under opaque keys.
type Storage interface {
	SaveFile(ctx context.Context, key string, reader io.Reader) (int64, error)
	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)
	DeleteFile(ctx context.Context, key string) error
	// URL is the public address the file is served from.
	URL(key string) string
}
