package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/repository"
)

// validID maps ids that cannot exist in the store to ErrNotFound so they never
// reach a uuid column.
func validID(id, what string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q", domain.ErrNotFound, what, id)
	}
	return nil
}

// findOwnProfile resolves the identity's profile through its link first and
// by email otherwise. It returns nil, nil when there is none.
func findOwnProfile(ctx context.Context, repos repository.Repositories, identity *domain.Identity) (*domain.Profile, error) {
	return resolveOwnProfile(ctx, identity, repos.Profiles.GetByID, repos.Profiles.GetByEmail)
}

// lockOwnProfile is findOwnProfile with the row locked for the rest of the
// transaction. Every transaction that writes a profile reads it this way.
func lockOwnProfile(ctx context.Context, repos repository.Repositories, identity *domain.Identity) (*domain.Profile, error) {
	return resolveOwnProfile(ctx, identity, repos.Profiles.GetByIDForUpdate, repos.Profiles.GetByEmailForUpdate)
}

type profileGetter func(ctx context.Context, key string) (*domain.Profile, error)

func resolveOwnProfile(ctx context.Context, identity *domain.Identity, byID, byEmail profileGetter) (*domain.Profile, error) {
	if identity.ProfileID != nil && *identity.ProfileID != "" {
		p, err := byID(ctx, *identity.ProfileID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to get linked profile: %w", err)
		}
	}

	p, err := byEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return p, nil
}
