package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"civicledger/internal/document"
	"civicledger/internal/request"
	"civicledger/pkg/platform/sentinel"
)

// PostgresStore persists requests in PostgreSQL. Finalize is a single
// conditional UPDATE, so concurrent approve/reject calls race on the
// database row and exactly one wins.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, req request.DocumentRequest) error {
	fields, err := json.Marshal(req.SubmittedFields)
	if err != nil {
		return fmt.Errorf("marshal submitted fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO document_requests
		   (id, requester_id, requester_address, issuer_key, document_type, submitted_fields, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.RequesterID, req.RequesterAddress, req.IssuerKey,
		req.DocumentType, fields, string(req.Status), req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (request.DocumentRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, requester_id, requester_address, issuer_key, document_type,
		        submitted_fields, status, created_at, content_kind, content_data
		 FROM document_requests WHERE id = $1`, id)
	return scanRequest(row)
}

func (s *PostgresStore) ListPendingForIssuer(ctx context.Context, issuerKey string) ([]request.DocumentRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, requester_id, requester_address, issuer_key, document_type,
		        submitted_fields, status, created_at, content_kind, content_data
		 FROM document_requests
		 WHERE issuer_key = $1 AND status = 'pending'
		 ORDER BY created_at`, issuerKey)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return collectRequests(rows)
}

func (s *PostgresStore) ListApprovedForOwner(ctx context.Context, ownerAddress string) ([]request.DocumentRequest, error) {
	normalized := strings.ToLower(strings.TrimSpace(ownerAddress))
	if normalized == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, requester_id, requester_address, issuer_key, document_type,
		        submitted_fields, status, created_at, content_kind, content_data
		 FROM document_requests
		 WHERE status = 'approved' AND content_data IS NOT NULL
		   AND lower(trim(requester_address)) = $1
		 ORDER BY created_at`, normalized)
	if err != nil {
		return nil, fmt.Errorf("list approved: %w", err)
	}
	return collectRequests(rows)
}

func (s *PostgresStore) Finalize(ctx context.Context, id string, status request.Status, content *document.Payload) error {
	var kind, data sql.NullString
	if content != nil {
		kind = sql.NullString{String: string(content.Kind), Valid: true}
		data = sql.NullString{String: content.Data, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE document_requests
		 SET status = $2, content_kind = $3, content_data = $4
		 WHERE id = $1 AND status = 'pending'`,
		id, string(status), kind, data)
	if err != nil {
		return fmt.Errorf("finalize request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finalize request: %w", err)
	}
	if affected == 0 {
		// Distinguish missing row from already-finalized row.
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM document_requests WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("finalize request: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (request.DocumentRequest, error) {
	var (
		req    request.DocumentRequest
		fields []byte
		status string
		kind   sql.NullString
		data   sql.NullString
	)
	err := row.Scan(&req.ID, &req.RequesterID, &req.RequesterAddress, &req.IssuerKey,
		&req.DocumentType, &fields, &status, &req.CreatedAt, &kind, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return request.DocumentRequest{}, sentinel.ErrNotFound
	}
	if err != nil {
		return request.DocumentRequest{}, fmt.Errorf("scan request: %w", err)
	}
	if err := json.Unmarshal(fields, &req.SubmittedFields); err != nil {
		return request.DocumentRequest{}, fmt.Errorf("unmarshal submitted fields: %w", err)
	}
	req.Status = request.Status(status)
	if data.Valid {
		req.Content = &document.Payload{Kind: document.PayloadKind(kind.String), Data: data.String}
	}
	return req, nil
}

func collectRequests(rows *sql.Rows) ([]request.DocumentRequest, error) {
	defer rows.Close()
	var out []request.DocumentRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
