package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"alumni-directory-backend/internal/logger"
)

//go:embed schema.sql
var schema string

// Migrate creates any missing tables and indexes. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	logger.DatabaseCall("MIGRATE", "schema.sql")
	_, err := db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
