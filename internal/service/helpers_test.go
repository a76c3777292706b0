package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alumni-directory-backend/internal/domain"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyModeration(ctx context.Context, profile *domain.Profile, action domain.ModerationAction, reason string) error {
	args := m.Called(ctx, profile, action, reason)
	return args.Error(0)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// hand out a copy so callers can mutate it freely
	id := *args.Get(0).(*domain.Identity)
	return &id, args.Error(1)
}

// seedProfile stores a profile with the given status and keeps the blocklist
// consistent with it.
func seedProfile(t *testing.T, store *memStore, email string, status domain.ProfileStatus) *domain.Profile {
	t.Helper()
	p := &domain.Profile{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        strPtr("Test Alumnus"),
		Status:      status,
		SubmittedAt: fixedNow.Add(-time.Hour),
	}
	require.NoError(t, store.Repositories().Profiles.Create(context.Background(), p))
	if status == domain.ProfileStatusBlocked {
		store.blocklist[email] = domain.BlocklistEntry{Email: email, BlockedBy: "seed", Reason: "seed"}
	}
	return p
}

// assertBlocklistConsistent checks blocked <=> blocklisted for every profile.
func assertBlocklistConsistent(t *testing.T, store *memStore) {
	t.Helper()
	for _, p := range store.profiles {
		_, listed := store.blocklist[p.Email]
		require.Equalf(t, p.Status == domain.ProfileStatusBlocked, listed,
			"profile %s has status %s but blocklisted=%v", p.Email, p.Status, listed)
	}
}
