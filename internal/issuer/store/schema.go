package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS issuers (
    address        TEXT NOT NULL,
    pub_key_hash   TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    document_types TEXT[] NOT NULL DEFAULT '{}'
);
`

// EnsureSchema creates the issuer tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure issuer schema: %w", err)
	}
	return nil
}
