package http

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"alumni-directory-backend/internal/domain"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) SignIn(ctx context.Context, idToken string) (*domain.IdentitySession, string, error) {
	args := m.Called(ctx, idToken)
	s, _ := args.Get(0).(*domain.IdentitySession)
	return s, args.String(1), args.Error(2)
}
func (m *MockSessionService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(*domain.Identity)
	return id, args.Error(1)
}
func (m *MockSessionService) Enrich(ctx context.Context, identity *domain.Identity) (*domain.IdentitySession, error) {
	args := m.Called(ctx, identity)
	s, _ := args.Get(0).(*domain.IdentitySession)
	return s, args.Error(1)
}
func (m *MockSessionService) EnsureLink(ctx context.Context, identity *domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, identity *domain.Identity) (*domain.Profile, error) {
	args := m.Called(ctx, identity)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}
func (m *MockProfileService) Submit(ctx context.Context, identity *domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	args := m.Called(ctx, identity, patch)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}
func (m *MockProfileService) UpdateFields(ctx context.Context, identity *domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error) {
	args := m.Called(ctx, identity, patch)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}
func (m *MockProfileService) ListDirectory(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error) {
	args := m.Called(ctx, status)
	ps, _ := args.Get(0).([]domain.Profile)
	return ps, args.Error(1)
}
func (m *MockProfileService) CreateDirect(ctx context.Context, input domain.NewProfileInput) (*domain.Profile, error) {
	args := m.Called(ctx, input)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

type MockModerationEngine struct {
	mock.Mock
}

func (m *MockModerationEngine) Apply(ctx context.Context, profileID string, action domain.ModerationAction, actor, reason string) (*domain.Profile, error) {
	args := m.Called(ctx, profileID, action, actor, reason)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Login(ctx context.Context, username, password string) (*domain.Admin, string, error) {
	args := m.Called(ctx, username, password)
	a, _ := args.Get(0).(*domain.Admin)
	return a, args.String(1), args.Error(2)
}
func (m *MockAdminService) Verify(ctx context.Context, token string) (*domain.Admin, error) {
	args := m.Called(ctx, token)
	a, _ := args.Get(0).(*domain.Admin)
	return a, args.Error(1)
}
func (m *MockAdminService) ListProfiles(ctx context.Context, status domain.ProfileStatus) ([]domain.ProfileWithOwner, error) {
	args := m.Called(ctx, status)
	ps, _ := args.Get(0).([]domain.ProfileWithOwner)
	return ps, args.Error(1)
}
func (m *MockAdminService) CreateAdmin(ctx context.Context, username, password string) (*domain.Admin, error) {
	args := m.Called(ctx, username, password)
	a, _ := args.Get(0).(*domain.Admin)
	return a, args.Error(1)
}

type MockPictureService struct {
	mock.Mock
}

func (m *MockPictureService) Upload(ctx context.Context, identity *domain.Identity, contentType string, size int64, r io.Reader) (string, error) {
	args := m.Called(ctx, identity, contentType, size, r)
	return args.String(0), args.Error(1)
}
func (m *MockPictureService) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}
