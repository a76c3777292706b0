package postgres

import (
	"context"
	"database/sql"
	"time"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"

	"github.com/google/uuid"
)

type identityRepository struct {
	q querier
}

func NewIdentityRepository(db *sql.DB) repository.IdentityRepository {
	return &identityRepository{q: db}
}

func (r *identityRepository) Upsert(ctx context.Context, id *domain.Identity) error {
	query := `INSERT INTO users (id, subject, email, name, image, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (subject) DO UPDATE SET email = EXCLUDED.email, name = EXCLUDED.name,
	              image = EXCLUDED.image, updated_at = EXCLUDED.updated_at
	          RETURNING id, profile_id, created_at`
	now := time.Now().UTC()
	id.Email = domain.NormalizeEmail(id.Email)
	id.UpdatedAt = now

	logger.DatabaseCall("UPSERT", "users", "subject", id.Subject)
	err := r.q.QueryRowContext(ctx, query, uuid.NewString(), id.Subject, id.Email, id.Name, id.Picture, now, now).
		Scan(&id.ID, &id.ProfileID, &id.CreatedAt)
	logger.DatabaseResult("UPSERT", 1, err, "subject", id.Subject)
	return err
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	u := &domain.Identity{}
	query := `SELECT id, subject, email, name, image, profile_id, created_at, updated_at FROM users WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).
		Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.Picture, &u.ProfileID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err, "identity")
	}
	return u, nil
}

// LinkProfile is first-writer-wins: concurrent callers writing the same
// profile id all succeed, a different existing link is left alone.
func (r *identityRepository) LinkProfile(ctx context.Context, identityID, profileID string) (bool, error) {
	query := `UPDATE users SET profile_id = $1, updated_at = $2
	          WHERE id = $3 AND (profile_id IS NULL OR profile_id = $1)`

	logger.DatabaseCall("UPDATE", "users.profile_id", "identityID", identityID, "profileID", profileID)
	res, err := r.q.ExecContext(ctx, query, profileID, time.Now().UTC(), identityID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "identityID", identityID)
		return false, err
	}
	rows, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "identityID", identityID)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
