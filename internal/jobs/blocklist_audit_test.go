package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alumni-directory-backend/internal/config"
	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/repository"
)

type MockProfileRepository struct {
	mock.Mock
	repository.ProfileRepository
}

func (m *MockProfileRepository) List(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error) {
	args := m.Called(ctx, status)
	ps, _ := args.Get(0).([]domain.Profile)
	return ps, args.Error(1)
}

type MockBlocklistRepository struct {
	mock.Mock
	repository.BlocklistRepository
}

func (m *MockBlocklistRepository) List(ctx context.Context) ([]domain.BlocklistEntry, error) {
	args := m.Called(ctx)
	es, _ := args.Get(0).([]domain.BlocklistEntry)
	return es, args.Error(1)
}

func newRunner(profiles *MockProfileRepository, blocklist *MockBlocklistRepository) *JobRunner {
	return NewJobRunner(repository.Repositories{Profiles: profiles, Blocklist: blocklist}, &config.Config{})
}

func TestBlocklistAudit(t *testing.T) {
	ctx := context.Background()

	t.Run("Consistent", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		blocklist := new(MockBlocklistRepository)
		profiles.On("List", ctx, domain.ProfileStatus("")).Return([]domain.Profile{
			{ID: "p1", Email: "a@example.com", Status: domain.ProfileStatusApproved},
			{ID: "p2", Email: "b@example.com", Status: domain.ProfileStatusBlocked},
		}, nil)
		blocklist.On("List", ctx).Return([]domain.BlocklistEntry{
			{Email: "B@example.com"},
			{Email: "never-signed-up@example.com"},
		}, nil)

		report, err := newRunner(profiles, blocklist).BlocklistAudit(ctx)
		require.NoError(t, err)
		assert.True(t, report.Consistent())
	})

	t.Run("Drift", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		blocklist := new(MockBlocklistRepository)
		profiles.On("List", ctx, domain.ProfileStatus("")).Return([]domain.Profile{
			{ID: "p1", Email: "a@example.com", Status: domain.ProfileStatusApproved},
			{ID: "p2", Email: "b@example.com", Status: domain.ProfileStatusBlocked},
			{ID: "p3", Email: "c@example.com", Status: domain.ProfileStatusRejected},
		}, nil)
		blocklist.On("List", ctx).Return([]domain.BlocklistEntry{
			{Email: "a@example.com"},
			{Email: "c@example.com"},
		}, nil)

		report, err := newRunner(profiles, blocklist).BlocklistAudit(ctx)
		require.NoError(t, err)
		assert.False(t, report.Consistent())
		assert.Equal(t, []string{"p2"}, report.ProfilesMissingEntry)
		assert.Equal(t, []string{"a@example.com", "c@example.com"}, report.EntriesNotBlocked)
	})

	t.Run("ListFails", func(t *testing.T) {
		profiles := new(MockProfileRepository)
		blocklist := new(MockBlocklistRepository)
		profiles.On("List", ctx, domain.ProfileStatus("")).Return(nil, errors.New("connection refused"))

		_, err := newRunner(profiles, blocklist).BlocklistAudit(ctx)
		assert.Error(t, err)
		blocklist.AssertNotCalled(t, "List", mock.Anything)
	})
}

func TestAuditBlocklist_RecoversFromPanic(t *testing.T) {
	// nil repositories make the audit panic; the runner must swallow it
	jr := NewJobRunner(repository.Repositories{}, &config.Config{})
	assert.NotPanics(t, jr.AuditBlocklist)
}
