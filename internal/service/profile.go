package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
)

type profileService struct {
	repos       repository.Repositories
	tx          repository.Transactor
	phoneRegion string
	now         func() time.Time
}

func NewProfileService(repos repository.Repositories, tx repository.Transactor, phoneRegion string) ProfileService {
	return &profileService{
		repos:       repos,
		tx:          tx,
		phoneRegion: phoneRegion,
		now:         time.Now,
	}
}

func (s *profileService) Get(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	return findOwnProfile(ctx, s.repos, identity)
}

// Submit creates the caller's profile or resubmits it for review. Either way
// the profile ends up pending with no review fields and linked to the caller.
func (s *profileService) Submit(ctx context.Context, identity *domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	logger.EnterMethod("profileService.Submit", "identityID", identity.ID)

	patch.NormalizePhone(s.phoneRegion)
	if err := patch.Validate(); err != nil {
		logger.ExitMethodWithError("profileService.Submit", err, "identityID", identity.ID)
		return nil, err
	}
	email := domain.NormalizeEmail(identity.Email)

	var result *domain.Profile
	err := s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		// Lock first so a block committed meanwhile is seen by the checks below.
		p, err := lockOwnProfile(ctx, repos, identity)
		if err != nil {
			return err
		}

		blocked, err := repos.Blocklist.Exists(ctx, email)
		if err != nil {
			return fmt.Errorf("failed to check blocklist: %w", err)
		}
		if blocked {
			return fmt.Errorf("%w: this account has been blocked", domain.ErrForbidden)
		}

		now := s.now().UTC()

		if p == nil {
			p = &domain.Profile{
				ID:          uuid.NewString(),
				Email:       email,
				Status:      domain.ProfileStatusPending,
				SubmittedAt: now,
			}
			patch.Apply(p)
			if err := repos.Profiles.Create(ctx, p); err != nil {
				return fmt.Errorf("failed to create profile: %w", err)
			}
		} else {
			if p.Status == domain.ProfileStatusBlocked {
				return fmt.Errorf("%w: this profile has been blocked", domain.ErrForbidden)
			}
			patch.Apply(p)
			p.Status = domain.ProfileStatusPending
			p.SubmittedAt = now
			p.ClearReview()
			if err := repos.Profiles.Update(ctx, p); err != nil {
				return fmt.Errorf("failed to resubmit profile: %w", err)
			}
		}

		if err := linkIdentity(ctx, repos, identity, p.ID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("profileService.Submit", err, "identityID", identity.ID)
		return nil, err
	}

	logger.Info("Profile submitted for review", "profileID", result.ID, "email", result.Email)
	logger.ExitMethod("profileService.Submit", "profileID", result.ID)
	return result, nil
}

// UpdateFields edits the provided fields in place and leaves the moderation
// state alone.
func (s *profileService) UpdateFields(ctx context.Context, identity *domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	patch.NormalizePhone(s.phoneRegion)
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var result *domain.Profile
	err := s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		p, err := lockOwnProfile(ctx, repos, identity)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: profile", domain.ErrNotFound)
		}
		if p.Status == domain.ProfileStatusBlocked {
			return fmt.Errorf("%w: this profile has been blocked", domain.ErrForbidden)
		}

		patch.Apply(p)
		if err := repos.Profiles.UpdateFields(ctx, p); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		if err := linkIdentity(ctx, repos, identity, p.ID); err != nil {
			return err
		}
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListDirectory returns every profile, or only those in status when it is
// set. Both are ordered newest first.
func (s *profileService) ListDirectory(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error) {
	if status != "" && !status.IsStored() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}
	profiles, err := s.repos.Profiles.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// CreateDirect is the administrative create. It skips the submission flow
// but still refuses blocklisted and duplicate emails.
func (s *profileService) CreateDirect(ctx context.Context, input domain.NewProfileInput) (*domain.Profile, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	input.NormalizePhone(s.phoneRegion)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	p := &domain.Profile{
		ID:          uuid.NewString(),
		Email:       input.Email,
		Status:      domain.ProfileStatusPending,
		SubmittedAt: s.now().UTC(),
	}
	input.ProfilePatch.Apply(p)

	err := s.tx.WithTx(ctx, func(repos repository.Repositories) error {
		blocked, err := repos.Blocklist.Exists(ctx, p.Email)
		if err != nil {
			return fmt.Errorf("failed to check blocklist: %w", err)
		}
		if blocked {
			return fmt.Errorf("%w: email %s is blocked", domain.ErrConflict, p.Email)
		}
		if err := repos.Profiles.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Profile created directly", "profileID", p.ID, "email", p.Email)
	return p, nil
}
