package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alumni-directory-backend/internal/domain"
)

func newTestEngine(store *memStore, notifier Notifier) *moderationEngine {
	e := NewModerationEngine(store, notifier).(*moderationEngine)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestModerationEngine_Approve(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusPending)

	notifier := new(MockNotifier)
	notifier.On("NotifyModeration", ctx, mock.Anything, domain.ModerationApprove, "").Return(nil)

	updated, err := newTestEngine(store, notifier).Apply(ctx, p.ID, domain.ModerationApprove, "root", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileStatusApproved, updated.Status)
	require.NotNil(t, updated.ReviewedAt)
	assert.True(t, updated.ReviewedAt.Equal(fixedNow))
	assert.Equal(t, "root", *updated.ReviewedBy)

	stored := store.profiles[p.ID]
	assert.Equal(t, domain.ProfileStatusApproved, stored.Status)
	assert.Empty(t, store.blocklist)
	notifier.AssertExpectations(t)
}

func TestModerationEngine_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("with reason", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusPending)

		updated, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationReject, "root", "  incomplete  ")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusRejected, updated.Status)
		require.NotNil(t, updated.RejectionReason)
		assert.Equal(t, "incomplete", *updated.RejectionReason)
	})

	t.Run("empty reason stores null", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusApproved)

		updated, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationReject, "root", "")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusRejected, updated.Status)
		assert.Nil(t, updated.RejectionReason)
	})
}

func TestModerationEngine_Block(t *testing.T) {
	ctx := context.Background()

	t.Run("adds blocklist entry", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusApproved)

		updated, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationBlock, "root", "policy violation")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusBlocked, updated.Status)

		entry, ok := store.blocklist["ada@example.com"]
		require.True(t, ok)
		assert.Equal(t, "root", entry.BlockedBy)
		assert.Equal(t, "policy violation", entry.Reason)
		assertBlocklistConsistent(t, store)
	})

	t.Run("missing reason changes nothing", func(t *testing.T) {
		for _, reason := range []string{"", "   "} {
			store := newMemStore()
			p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusApproved)

			_, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationBlock, "root", reason)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Equal(t, domain.ProfileStatusApproved, store.profiles[p.ID].Status)
			assert.Nil(t, store.profiles[p.ID].ReviewedAt)
			assert.Empty(t, store.blocklist)
		}
	})

	t.Run("profile write failure rolls back blocklist", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusApproved)
		store.failOn["Profiles.Update"] = errors.New("connection reset")

		_, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationBlock, "root", "spam")
		require.Error(t, err)
		assert.Empty(t, store.blocklist)
		assert.Equal(t, domain.ProfileStatusApproved, store.profiles[p.ID].Status)
		assertBlocklistConsistent(t, store)
	})

	t.Run("blocklist failure leaves profile untouched", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusPending)
		store.failOn["Blocklist.Upsert"] = errors.New("disk full")

		_, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationBlock, "root", "spam")
		require.Error(t, err)
		assert.Equal(t, domain.ProfileStatusPending, store.profiles[p.ID].Status)
		assertBlocklistConsistent(t, store)
	})
}

func TestModerationEngine_Unblock(t *testing.T) {
	ctx := context.Background()

	t.Run("demotes to rejected and clears reason", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusBlocked)
		stored := store.profiles[p.ID]
		stored.RejectionReason = strPtr("old reason")
		store.profiles[p.ID] = stored

		updated, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationUnblock, "root", "")
		require.NoError(t, err)
		assert.Equal(t, domain.ProfileStatusRejected, updated.Status)
		assert.Nil(t, updated.RejectionReason)
		assert.Equal(t, "root", *updated.ReviewedBy)
		assert.Empty(t, store.blocklist)
		assertBlocklistConsistent(t, store)
	})

	t.Run("profile write failure keeps blocklist entry", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusBlocked)
		store.failOn["Profiles.Update"] = errors.New("connection reset")

		_, err := newTestEngine(store, nil).Apply(ctx, p.ID, domain.ModerationUnblock, "root", "")
		require.Error(t, err)
		assert.Contains(t, store.blocklist, "ada@example.com")
		assert.Equal(t, domain.ProfileStatusBlocked, store.profiles[p.ID].Status)
	})
}

func TestModerationEngine_OverlappingActions(t *testing.T) {
	ctx := context.Background()

	t.Run("unblock waits for block", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusApproved)
		engine := newTestEngine(store, nil)

		var unblockErr error
		store.afterRead = func(read domain.Profile) {
			store.concurrently(read.ID, func() {
				_, unblockErr = engine.Apply(ctx, read.ID, domain.ModerationUnblock, "root", "")
			})
		}

		_, err := engine.Apply(ctx, p.ID, domain.ModerationBlock, "root", "spam")
		require.NoError(t, err)
		require.NoError(t, unblockErr)
		assert.Equal(t, domain.ProfileStatusRejected, store.profiles[p.ID].Status)
		assert.Empty(t, store.blocklist)
		assertBlocklistConsistent(t, store)
	})

	t.Run("approve during unblock sees the unblocked profile", func(t *testing.T) {
		store := newMemStore()
		p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusBlocked)
		engine := newTestEngine(store, nil)

		var approveErr error
		store.afterRead = func(read domain.Profile) {
			store.concurrently(read.ID, func() {
				_, approveErr = engine.Apply(ctx, read.ID, domain.ModerationApprove, "root", "")
			})
		}

		_, err := engine.Apply(ctx, p.ID, domain.ModerationUnblock, "root", "")
		require.NoError(t, err)
		require.NoError(t, approveErr)
		assert.Equal(t, domain.ProfileStatusApproved, store.profiles[p.ID].Status)
		assertBlocklistConsistent(t, store)
	})
}

func TestModerationEngine_Errors(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	blocked := seedProfile(t, store, "blocked@example.com", domain.ProfileStatusBlocked)
	pending := seedProfile(t, store, "pending@example.com", domain.ProfileStatusPending)
	engine := newTestEngine(store, nil)

	tests := []struct {
		name    string
		id      string
		action  domain.ModerationAction
		actor   string
		reason  string
		wantErr error
	}{
		{"unknown action", pending.ID, "delete", "root", "", domain.ErrInvalidArgument},
		{"missing profile", "6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f", domain.ModerationApprove, "root", "", domain.ErrNotFound},
		{"malformed id", "not-a-uuid", domain.ModerationApprove, "root", "", domain.ErrNotFound},
		{"approve blocked", blocked.ID, domain.ModerationApprove, "root", "", domain.ErrInvalidArgument},
		{"reject blocked", blocked.ID, domain.ModerationReject, "root", "nope", domain.ErrInvalidArgument},
		{"missing actor", pending.ID, domain.ModerationApprove, " ", "", domain.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Apply(ctx, tt.id, tt.action, tt.actor, tt.reason)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, domain.ProfileStatusBlocked, store.profiles[blocked.ID].Status)
	assert.Equal(t, domain.ProfileStatusPending, store.profiles[pending.ID].Status)
}

func TestModerationEngine_NotificationFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	p := seedProfile(t, store, "ada@example.com", domain.ProfileStatusPending)

	notifier := new(MockNotifier)
	notifier.On("NotifyModeration", ctx, mock.Anything, domain.ModerationApprove, "").Return(errors.New("smtp down"))

	updated, err := newTestEngine(store, notifier).Apply(ctx, p.ID, domain.ModerationApprove, "root", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ProfileStatusApproved, updated.Status)
	assert.Equal(t, domain.ProfileStatusApproved, store.profiles[p.ID].Status)
}

// Every action from every status must leave blocked <=> blocklisted intact,
// whether it succeeds or not.
func TestModerationEngine_InvariantAcrossAllTransitions(t *testing.T) {
	ctx := context.Background()
	statuses := []domain.ProfileStatus{
		domain.ProfileStatusPending, domain.ProfileStatusApproved,
		domain.ProfileStatusRejected, domain.ProfileStatusBlocked,
	}
	actions := []domain.ModerationAction{
		domain.ModerationApprove, domain.ModerationReject,
		domain.ModerationBlock, domain.ModerationUnblock,
	}

	for _, from := range statuses {
		for _, action := range actions {
			t.Run(string(from)+"/"+string(action), func(t *testing.T) {
				store := newMemStore()
				p := seedProfile(t, store, "ada@example.com", from)

				updated, err := newTestEngine(store, nil).Apply(ctx, p.ID, action, "root", "reason")
				assertBlocklistConsistent(t, store)

				if !action.CanApply(from) {
					assert.ErrorIs(t, err, domain.ErrInvalidArgument)
					assert.Equal(t, from, store.profiles[p.ID].Status)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, domain.ModerationTargets[action], updated.Status)
			})
		}
	}
}
