package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
	"alumni-directory-backend/internal/storage"
)

type pictureService struct {
	repos        repository.Repositories
	store        storage.Storage
	maxBytes     int64
	allowedTypes map[string]bool
}

func NewPictureService(repos repository.Repositories, store storage.Storage, maxBytes int64, allowedTypes []string) PictureService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(t)] = true
	}
	return &pictureService{
		repos:        repos,
		store:        store,
		maxBytes:     maxBytes,
		allowedTypes: allowed,
	}
}

// Upload stores a picture and returns the URL to put in profilePicture. The
// profile itself is not touched.
func (s *pictureService) Upload(ctx context.Context, identity *domain.Identity, contentType string, size int64, r io.Reader) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !s.allowedTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported image type %q", domain.ErrInvalidArgument, contentType)
	}
	if size > s.maxBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidArgument, s.maxBytes)
	}

	blocked, err := s.repos.Blocklist.Exists(ctx, identity.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check blocklist: %w", err)
	}
	if blocked {
		return "", fmt.Errorf("%w: this account has been blocked", domain.ErrForbidden)
	}

	key, err := storage.NewKey(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}

	// Read one byte past the limit so an understated size is still caught.
	written, err := s.store.SaveFile(ctx, key, io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	if written > s.maxBytes {
		_ = s.store.DeleteFile(ctx, key)
		return "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrInvalidArgument, s.maxBytes)
	}

	logger.Info("Profile picture uploaded", "identityID", identity.ID, "key", key, "size", written)
	return s.store.URL(key), nil
}

func (s *pictureService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !storage.ValidKey(key) {
		return nil, "", fmt.Errorf("%w: image %q", domain.ErrNotFound, key)
	}
	rc, err := s.store.ReadFile(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", fmt.Errorf("%w: image %q", domain.ErrNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	return rc, storage.ContentType(key), nil
}
