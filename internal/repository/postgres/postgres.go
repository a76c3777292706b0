package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"

	_ "github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx so every repository can
// run inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.ProfileRepository
	repository.BlocklistRepository
	repository.IdentityRepository
	repository.AdminRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		ProfileRepository:   NewProfileRepository(db),
		BlocklistRepository: NewBlocklistRepository(db),
		IdentityRepository:  NewIdentityRepository(db),
		AdminRepository:     NewAdminRepository(db),
	}
}

// Repositories returns the non-transactional repositories.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Profiles:   s.ProfileRepository,
		Blocklist:  s.BlocklistRepository,
		Identities: s.IdentityRepository,
		Admins:     s.AdminRepository,
	}
}

func (s *Store) WithTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	repos := repository.Repositories{
		Profiles:   &profileRepository{q: tx},
		Blocklist:  &blocklistRepository{q: tx},
		Identities: &identityRepository{q: tx},
		Admins:     &adminRepository{q: tx},
	}
	if err := fn(repos); err != nil {
		logger.Debug("Rolling back transaction", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
