package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
	"alumni-directory-backend/internal/security"
)

const minAdminPasswordLength = 8

type adminService struct {
	repos  repository.Repositories
	tokens security.TokenManager
}

func NewAdminService(repos repository.Repositories, tokens security.TokenManager) AdminService {
	return &adminService{
		repos:  repos,
		tokens: tokens,
	}
}

func (s *adminService) Login(ctx context.Context, username, password string) (*domain.Admin, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("%w: username and password are required", domain.ErrInvalidArgument)
	}

	admin, err := s.repos.Admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Admin login failed", "username", username, "reason", "unknown username")
			return nil, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("failed to get admin: %w", err)
	}
	if !security.CheckPassword(admin.PasswordHash, password) {
		logger.Warn("Admin login failed", "username", username, "reason", "wrong password")
		return nil, "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateAdminToken(admin.ID, admin.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue admin token: %w", err)
	}

	logger.Info("Admin logged in", "adminID", admin.ID, "username", admin.Username)
	return admin, token, nil
}

// Verify checks the token's signature, expiry and "admin" type, then that the
// admin it names still exists.
func (s *adminService) Verify(ctx context.Context, token string) (*domain.Admin, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no admin session", domain.ErrUnauthorized)
	}
	claims, err := s.tokens.ValidateToken(token, security.TokenTypeAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if _, err := uuid.Parse(claims.AdminID); err != nil {
		return nil, fmt.Errorf("%w: malformed admin id", domain.ErrUnauthorized)
	}

	admin, err := s.repos.Admins.GetByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: admin no longer exists", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func (s *adminService) ListProfiles(ctx context.Context, status domain.ProfileStatus) ([]domain.ProfileWithOwner, error) {
	if !status.IsStored() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}
	profiles, err := s.repos.Profiles.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

func (s *adminService) CreateAdmin(ctx context.Context, username, password string) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidArgument)
	}
	if len(password) < minAdminPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidArgument, minAdminPasswordLength)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repos.Admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	logger.Info("Admin created", "adminID", admin.ID, "username", admin.Username)
	return admin, nil
}
