package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"alumni-directory-backend/internal/domain"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// translate maps driver errors onto the domain taxonomy.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s already exists", domain.ErrConflict, what)
	}
	return err
}
