package postgres

import (
	"context"
	"database/sql"
	"time"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
)

type blocklistRepository struct {
	q querier
}

func NewBlocklistRepository(db *sql.DB) repository.BlocklistRepository {
	return &blocklistRepository{q: db}
}

func (r *blocklistRepository) Get(ctx context.Context, email string) (*domain.BlocklistEntry, error) {
	e := &domain.BlocklistEntry{}
	query := `SELECT email, blocked_by, reason, created_at FROM blocked_users WHERE email = $1`
	err := r.q.QueryRowContext(ctx, query, domain.NormalizeEmail(email)).Scan(&e.Email, &e.BlockedBy, &e.Reason, &e.CreatedAt)
	if err != nil {
		return nil, translate(err, "blocklist entry")
	}
	return e, nil
}

func (r *blocklistRepository) Exists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM blocked_users WHERE email = $1)`
	if err := r.q.QueryRowContext(ctx, query, domain.NormalizeEmail(email)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Upsert creates the entry or overwrites who blocked the email and why.
func (r *blocklistRepository) Upsert(ctx context.Context, e *domain.BlocklistEntry) error {
	query := `INSERT INTO blocked_users (email, blocked_by, reason, created_at) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (email) DO UPDATE SET blocked_by = EXCLUDED.blocked_by, reason = EXCLUDED.reason, created_at = EXCLUDED.created_at`
	e.Email = domain.NormalizeEmail(e.Email)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	logger.DatabaseCall("UPSERT", "blocked_users", "email", e.Email)
	_, err := r.q.ExecContext(ctx, query, e.Email, e.BlockedBy, e.Reason, e.CreatedAt)
	logger.DatabaseResult("UPSERT", 1, err, "email", e.Email)
	return err
}

// Delete is a no-op when the email is not blocked.
func (r *blocklistRepository) Delete(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	logger.DatabaseCall("DELETE", "blocked_users", "email", email)
	res, err := r.q.ExecContext(ctx, `DELETE FROM blocked_users WHERE email = $1`, email)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "email", email)
		return err
	}
	rows, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", rows, nil, "email", email)
	return nil
}

func (r *blocklistRepository) List(ctx context.Context) ([]domain.BlocklistEntry, error) {
	query := `SELECT email, blocked_by, reason, created_at FROM blocked_users ORDER BY created_at DESC`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.BlocklistEntry{}
	for rows.Next() {
		var e domain.BlocklistEntry
		if err := rows.Scan(&e.Email, &e.BlockedBy, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
