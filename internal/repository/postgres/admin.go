package postgres

import (
	"context"
	"database/sql"
	"time"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/repository"
)

type adminRepository struct {
	q querier
}

func NewAdminRepository(db *sql.DB) repository.AdminRepository {
	return &adminRepository{q: db}
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `INSERT INTO admins (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	a.CreatedAt = time.Now().UTC()
	_, err := r.q.ExecContext(ctx, query, a.ID, a.Username, a.PasswordHash, a.CreatedAt)
	return translate(err, "admin")
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	a := &domain.Admin{}
	query := `SELECT id, username, password_hash, created_at FROM admins WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, translate(err, "admin")
	}
	return a, nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	a := &domain.Admin{}
	query := `SELECT id, username, password_hash, created_at FROM admins WHERE username = $1`
	err := r.q.QueryRowContext(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, translate(err, "admin")
	}
	return a, nil
}
