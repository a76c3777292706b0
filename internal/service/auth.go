package service

import (
	"context"
	"errors"
	"fmt"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/identity"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
	"alumni-directory-backend/internal/security"
)

type sessionService struct {
	repos    repository.Repositories
	verifier identity.Verifier
	tokens   security.TokenManager
}

func NewSessionService(repos repository.Repositories, verifier identity.Verifier, tokens security.TokenManager) SessionService {
	return &sessionService{
		repos:    repos,
		verifier: verifier,
		tokens:   tokens,
	}
}

// SignIn verifies the provider token and opens a session. A blocklisted email
// is turned away before any identity, link or token is written.
func (s *sessionService) SignIn(ctx context.Context, idToken string) (*domain.IdentitySession, string, error) {
	logger.EnterMethod("sessionService.SignIn")

	verified, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		logger.ExitMethodWithError("sessionService.SignIn", err)
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	verified.Email = domain.NormalizeEmail(verified.Email)
	if verified.Email == "" {
		return nil, "", fmt.Errorf("%w: identity has no email", domain.ErrUnauthorized)
	}

	blocked, err := s.repos.Blocklist.Exists(ctx, verified.Email)
	if err != nil {
		logger.ExitMethodWithError("sessionService.SignIn", err, "email", verified.Email)
		return nil, "", fmt.Errorf("failed to check blocklist: %w", err)
	}
	if blocked {
		logger.Warn("Sign-in denied for blocked email", "email", verified.Email)
		return nil, "", fmt.Errorf("%w: this account has been blocked", domain.ErrForbidden)
	}

	if err := s.repos.Identities.Upsert(ctx, verified); err != nil {
		logger.ExitMethodWithError("sessionService.SignIn", err, "email", verified.Email)
		return nil, "", fmt.Errorf("failed to save identity: %w", err)
	}

	if err := s.EnsureLink(ctx, verified); err != nil {
		return nil, "", err
	}

	session, err := s.Enrich(ctx, verified)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateSessionToken(verified.ID, verified.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	logger.Info("Identity signed in", "identityID", verified.ID, "profileStatus", session.ProfileStatus)
	logger.ExitMethod("sessionService.SignIn", "identityID", verified.ID)
	return session, token, nil
}

func (s *sessionService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no session", domain.ErrUnauthorized)
	}
	claims, err := s.tokens.ValidateToken(token, security.TokenTypeSession)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if err := validID(claims.IdentityID, "identity"); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	id, err := s.repos.Identities.GetByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: identity no longer exists", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load identity: %w", err)
	}
	return id, nil
}

// Enrich is a pure read. An email on the blocklist reads as blocked even when
// no profile exists for it.
func (s *sessionService) Enrich(ctx context.Context, identity *domain.Identity) (*domain.IdentitySession, error) {
	session := &domain.IdentitySession{User: identity}

	p, err := findOwnProfile(ctx, s.repos, identity)
	if err != nil {
		return nil, err
	}
	if p != nil {
		session.Profile = p
		session.ProfileStatus = p.Status
		return session, nil
	}

	blocked, err := s.repos.Blocklist.Exists(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check blocklist: %w", err)
	}
	if blocked {
		session.ProfileStatus = domain.ProfileStatusBlocked
	} else {
		session.ProfileStatus = domain.ProfileStatusNone
	}
	return session, nil
}

// EnsureLink points the identity at the profile owning its email. The first
// link wins; racing callers write the same value and a different existing
// link is left alone.
func (s *sessionService) EnsureLink(ctx context.Context, identity *domain.Identity) error {
	if identity.ID == "" {
		return nil
	}

	p, err := s.repos.Profiles.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get profile by email: %w", err)
	}
	if identity.ProfileID != nil && *identity.ProfileID == p.ID {
		return nil
	}

	return linkIdentity(ctx, s.repos, identity, p.ID)
}

func linkIdentity(ctx context.Context, repos repository.Repositories, identity *domain.Identity, profileID string) error {
	if identity.ID == "" {
		return nil
	}
	linked, err := repos.Identities.LinkProfile(ctx, identity.ID, profileID)
	if err != nil {
		return fmt.Errorf("failed to link identity to profile: %w", err)
	}
	if !linked {
		logger.Warn("Identity already linked to another profile", "identityID", identity.ID, "profileID", profileID)
		return nil
	}
	identity.ProfileID = &profileID
	return nil
}
