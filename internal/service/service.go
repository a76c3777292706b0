package service

import (
	"context"
	"io"

	"alumni-directory-backend/internal/domain"
)

// SessionService owns the identity session: sign-in, token checks and the
// profileStatus projection used for routing.
type SessionService interface {
	SignIn(ctx context.Context, idToken string) (*domain.IdentitySession, string, error) // session, token
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
	Enrich(ctx context.Context, identity *domain.Identity) (*domain.IdentitySession, error)
	EnsureLink(ctx context.Context, identity *domain.Identity) error
}

type ProfileService interface {
	Get(ctx context.Context, identity *domain.Identity) (*domain.Profile, error)
	Submit(ctx context.Context, identity *domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error)
	UpdateFields(ctx context.Context, identity *domain.Identity, patch domain.ProfilePatch) (*domain.Profile, error)
	ListDirectory(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error)
	CreateDirect(ctx context.Context, input domain.NewProfileInput) (*domain.Profile, error)
}

type ModerationEngine interface {
	Apply(ctx context.Context, profileID string, action domain.ModerationAction, actor, reason string) (*domain.Profile, error)
}

type AdminService interface {
	Login(ctx context.Context, username, password string) (*domain.Admin, string, error) // admin, token
	Verify(ctx context.Context, token string) (*domain.Admin, error)
	ListProfiles(ctx context.Context, status domain.ProfileStatus) ([]domain.ProfileWithOwner, error)
	CreateAdmin(ctx context.Context, username, password string) (*domain.Admin, error)
}

type PictureService interface {
	Upload(ctx context.Context, identity *domain.Identity, contentType string, size int64, r io.Reader) (string, error) // public url
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)                                             // file, content type
}

// Notifier tells a profile owner about a moderation decision.
type Notifier interface {
	NotifyModeration(ctx context.Context, profile *domain.Profile, action domain.ModerationAction, reason string) error
}
