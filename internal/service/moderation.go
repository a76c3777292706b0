package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
)

type moderationEngine struct {
	tx       repository.Transactor
	notifier Notifier
	now      func() time.Time
}

func NewModerationEngine(tx repository.Transactor, notifier Notifier) ModerationEngine {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &moderationEngine{
		tx:       tx,
		notifier: notifier,
		now:      time.Now,
	}
}

// Apply runs one moderation decision. The profile read, the blocklist write
// and the profile write share a transaction, so a failure in any of them
// leaves both records as they were. The read locks the profile row, which
// orders overlapping actions on the same profile.
func (e *moderationEngine) Apply(ctx context.Context, profileID string, action domain.ModerationAction, actor, reason string) (*domain.Profile, error) {
	logger.EnterMethod("moderationEngine.Apply", "profileID", profileID, "action", action, "actor", actor)

	if !action.IsValid() {
		err := fmt.Errorf("%w: unknown moderation action %q", domain.ErrInvalidArgument, action)
		logger.ExitMethodWithError("moderationEngine.Apply", err, "profileID", profileID)
		return nil, err
	}
	if err := validID(profileID, "profile"); err != nil {
		logger.ExitMethodWithError("moderationEngine.Apply", err, "profileID", profileID)
		return nil, err
	}
	actor = strings.TrimSpace(actor)
	reason = strings.TrimSpace(reason)

	var updated *domain.Profile
	err := e.tx.WithTx(ctx, func(repos repository.Repositories) error {
		p, err := repos.Profiles.GetByIDForUpdate(ctx, profileID)
		if err != nil {
			return fmt.Errorf("failed to get profile: %w", err)
		}

		if err := domain.ApplyModeration(p, action, actor, reason, e.now()); err != nil {
			return err
		}

		switch action {
		case domain.ModerationBlock:
			entry := &domain.BlocklistEntry{
				Email:     p.Email,
				BlockedBy: actor,
				Reason:    reason,
				CreatedAt: e.now().UTC(),
			}
			if err := repos.Blocklist.Upsert(ctx, entry); err != nil {
				return fmt.Errorf("failed to add email to blocklist: %w", err)
			}
		case domain.ModerationUnblock:
			if err := repos.Blocklist.Delete(ctx, p.Email); err != nil {
				return fmt.Errorf("failed to remove email from blocklist: %w", err)
			}
		}

		if err := repos.Profiles.Update(ctx, p); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("moderationEngine.Apply", err, "profileID", profileID, "action", action)
		return nil, err
	}

	logger.Moderation(string(action), updated.ID, actor, "email", updated.Email, "status", updated.Status, "reason", reason)

	// Delivery is best effort; the decision is already committed.
	if err := e.notifier.NotifyModeration(ctx, updated, action, reason); err != nil {
		logger.Warn("Failed to send moderation notification", "profileID", updated.ID, "action", action, "error", err)
	}

	logger.ExitMethod("moderationEngine.Apply", "profileID", profileID, "status", updated.Status)
	return updated, nil
}
