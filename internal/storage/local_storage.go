package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"alumni-directory-backend/internal/logger"
)

// Keys are generated by NewKey, so anything else is rejected before it can
// reach the filesystem.
var keyPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.(jpg|png|gif)$`)

var ErrInvalidKey = errors.New("invalid storage key")

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
}

var contentTypes = map[string]string{
	"jpg": "image/jpeg",
	"png": "image/png",
	"gif": "image/gif",
}

// NewKey returns a fresh key for a file of the given content type.
func NewKey(contentType string) (string, error) {
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	return uuid.NewString() + "." + ext, nil
}

// ContentType returns the MIME type implied by a key's extension.
func ContentType(key string) string {
	return contentTypes[strings.TrimPrefix(filepath.Ext(key), ".")]
}

func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// LocalStorage keeps files in a directory on the server's filesystem.
type LocalStorage struct {
	baseURL   string // e.g. "http://localhost:8080"
	imagesDir string
}

func NewLocalStorage(baseURL, uploadsDir string) (*LocalStorage, error) {
	imagesDir := filepath.Join(uploadsDir, "profiles")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{
		baseURL:   strings.TrimRight(baseURL, "/"),
		imagesDir: imagesDir,
	}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.imagesDir, key), nil
}

func (s *LocalStorage) SaveFile(ctx context.Context, key string, reader io.Reader) (int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return 0, err
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, reader)
	if err != nil {
		_ = os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug("Stored file", "key", key, "size", n)
	return n, nil
}

func (s *LocalStorage) ReadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return s.baseURL + "/media/" + key
}
