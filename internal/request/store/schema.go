package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS document_requests (
    id                TEXT PRIMARY KEY,
    requester_id      TEXT NOT NULL DEFAULT '',
    requester_address TEXT NOT NULL,
    issuer_key        TEXT NOT NULL,
    document_type     TEXT NOT NULL,
    submitted_fields  JSONB NOT NULL DEFAULT '{}',
    status            TEXT NOT NULL DEFAULT 'pending',
    created_at        TIMESTAMPTZ NOT NULL,
    content_kind      TEXT,
    content_data      TEXT
);
CREATE INDEX IF NOT EXISTS document_requests_issuer_pending
    ON document_requests (issuer_key) WHERE status = 'pending';
CREATE INDEX IF NOT EXISTS document_requests_requester
    ON document_requests (requester_address);
`

// EnsureSchema creates the request tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure request schema: %w", err)
	}
	return nil
}
