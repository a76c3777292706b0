package repository

import (
	"context"

	"alumni-directory-backend/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	// GetByIDForUpdate and GetByEmailForUpdate lock the row until the
	// surrounding transaction ends. Outside a transaction the lock is released
	// as soon as the read returns.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmailForUpdate(ctx context.Context, email string) (*domain.Profile, error)
	// Update writes the user fields and the moderation state.
	Update(ctx context.Context, p *domain.Profile) error
	// UpdateFields writes only the user editable fields.
	UpdateFields(ctx context.Context, p *domain.Profile) error
	// List returns profiles newest first, restricted to status when it is set.
	List(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error)
	ListByStatus(ctx context.Context, status domain.ProfileStatus) ([]domain.ProfileWithOwner, error)
}

type BlocklistRepository interface {
	Get(ctx context.Context, email string) (*domain.BlocklistEntry, error)
	Exists(ctx context.Context, email string) (bool, error)
	Upsert(ctx context.Context, entry *domain.BlocklistEntry) error
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]domain.BlocklistEntry, error)
}

type IdentityRepository interface {
	// Upsert inserts or refreshes the identity keyed by its provider subject
	// and fills in ID and ProfileID from the stored row.
	Upsert(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	// LinkProfile sets the identity's profile reference unless a different
	// one is already set. It reports whether the stored link equals profileID.
	LinkProfile(ctx context.Context, identityID, profileID string) (bool, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByUsername(ctx context.Context, username string) (*domain.Admin, error)
}

// Repositories groups the stores that take part in one transaction.
type Repositories struct {
	Profiles   ProfileRepository
	Blocklist  BlocklistRepository
	Identities IdentityRepository
	Admins     AdminRepository
}

// Transactor runs fn against repositories bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back
// otherwise.
type Transactor interface {
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
}
