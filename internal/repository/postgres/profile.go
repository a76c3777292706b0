package postgres

import (
	"context"
	"database/sql"
	"time"

	"alumni-directory-backend/internal/domain"
	"alumni-directory-backend/internal/logger"
	"alumni-directory-backend/internal/repository"
)

const profileColumns = `id, email, name, phone, graduation_year, degree, department, current_job, company,
	location, linkedin_url, bio, profile_picture, status, submitted_at, reviewed_at, reviewed_by,
	rejection_reason, created_at, updated_at`

type profileRepository struct {
	q querier
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{q: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner, extra ...any) (*domain.Profile, error) {
	p := &domain.Profile{}
	var status string
	dest := []any{
		&p.ID, &p.Email, &p.Name, &p.Phone, &p.GraduationYear, &p.Degree, &p.Department,
		&p.CurrentJob, &p.Company, &p.Location, &p.LinkedinURL, &p.Bio, &p.ProfilePicture,
		&status, &p.SubmittedAt, &p.ReviewedAt, &p.ReviewedBy, &p.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.Status = domain.ProfileStatus(status)
	return p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (` + profileColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	now := time.Now().UTC()
	if p.SubmittedAt.IsZero() {
		p.SubmittedAt = now
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	logger.DatabaseCall("INSERT", "profiles", "email", p.Email)
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.Email, p.Name, p.Phone, p.GraduationYear, p.Degree, p.Department,
		p.CurrentJob, p.Company, p.Location, p.LinkedinURL, p.Bio, p.ProfilePicture,
		string(p.Status), p.SubmittedAt, p.ReviewedAt, p.ReviewedBy, p.RejectionReason,
		p.CreatedAt, p.UpdatedAt,
	)
	logger.DatabaseResult("INSERT", 1, err, "email", p.Email)
	return translate(err, "profile")
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getOne(ctx, `WHERE email = $1`, domain.NormalizeEmail(email))
}

func (r *profileRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getOne(ctx, `WHERE id = $1 FOR UPDATE`, id)
}

func (r *profileRepository) GetByEmailForUpdate(ctx context.Context, email string) (*domain.Profile, error) {
	return r.getOne(ctx, `WHERE email = $1 FOR UPDATE`, domain.NormalizeEmail(email))
}

func (r *profileRepository) getOne(ctx context.Context, where string, arg any) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ` + where
	p, err := scanProfile(r.q.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, translate(err, "profile")
	}
	return p, nil
}

// Update writes every mutable column in a single statement.
func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET name=$1, phone=$2, graduation_year=$3, degree=$4, department=$5,
	          current_job=$6, company=$7, location=$8, linkedin_url=$9, bio=$10, profile_picture=$11,
	          status=$12, submitted_at=$13, reviewed_at=$14, reviewed_by=$15, rejection_reason=$16,
	          updated_at=$17 WHERE id=$18`
	p.UpdatedAt = time.Now().UTC()

	logger.DatabaseCall("UPDATE", "profiles", "id", p.ID, "status", p.Status)
	res, err := r.q.ExecContext(ctx, query,
		p.Name, p.Phone, p.GraduationYear, p.Degree, p.Department,
		p.CurrentJob, p.Company, p.Location, p.LinkedinURL, p.Bio, p.ProfilePicture,
		string(p.Status), p.SubmittedAt, p.ReviewedAt, p.ReviewedBy, p.RejectionReason,
		p.UpdatedAt, p.ID,
	)
	return checkUpdated(res, err, p.ID)
}

// UpdateFields leaves status, submitted_at and the review columns as stored.
func (r *profileRepository) UpdateFields(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET name=$1, phone=$2, graduation_year=$3, degree=$4, department=$5,
	          current_job=$6, company=$7, location=$8, linkedin_url=$9, bio=$10, profile_picture=$11,
	          updated_at=$12 WHERE id=$13`
	p.UpdatedAt = time.Now().UTC()

	logger.DatabaseCall("UPDATE", "profiles", "id", p.ID)
	res, err := r.q.ExecContext(ctx, query,
		p.Name, p.Phone, p.GraduationYear, p.Degree, p.Department,
		p.CurrentJob, p.Company, p.Location, p.LinkedinURL, p.Bio, p.ProfilePicture,
		p.UpdatedAt, p.ID,
	)
	return checkUpdated(res, err, p.ID)
}

func checkUpdated(res sql.Result, err error, id string) error {
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "id", id)
		return translate(err, "profile")
	}
	rows, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", rows, err, "id", id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return translate(sql.ErrNoRows, "profile")
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, status domain.ProfileStatus) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) ListByStatus(ctx context.Context, status domain.ProfileStatus) ([]domain.ProfileWithOwner, error) {
	logger.EnterMethod("profileRepository.ListByStatus", "status", status)

	query := `SELECT p.id, p.email, p.name, p.phone, p.graduation_year, p.degree, p.department, p.current_job,
	                 p.company, p.location, p.linkedin_url, p.bio, p.profile_picture, p.status, p.submitted_at,
	                 p.reviewed_at, p.reviewed_by, p.rejection_reason, p.created_at, p.updated_at,
	                 u.name, u.image
	          FROM profiles p
	          LEFT JOIN LATERAL (
	              SELECT name, image FROM users WHERE profile_id = p.id ORDER BY created_at LIMIT 1
	          ) u ON TRUE
	          WHERE p.status = $1
	          ORDER BY p.submitted_at DESC`
	logger.DatabaseCall("SELECT", "profiles JOIN users", "status", status)

	rows, err := r.q.QueryContext(ctx, query, string(status))
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "status", status)
		logger.ExitMethodWithError("profileRepository.ListByStatus", err, "status", status)
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.ProfileWithOwner{}
	for rows.Next() {
		var owner domain.ProfileOwner
		p, err := scanProfile(rows, &owner.Name, &owner.Image)
		if err != nil {
			logger.ExitMethodWithError("profileRepository.ListByStatus", err, "status", status)
			return nil, err
		}
		item := domain.ProfileWithOwner{Profile: *p}
		if owner.Name != nil || owner.Image != nil {
			item.User = &owner
		}
		profiles = append(profiles, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.DatabaseResult("SELECT", int64(len(profiles)), nil, "status", status)
	logger.ExitMethod("profileRepository.ListByStatus", "status", status, "count", len(profiles))
	return profiles, nil
}
