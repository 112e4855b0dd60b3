package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"civicledger/internal/issuer"
	"civicledger/pkg/platform/sentinel"
)

// PostgresStore persists the issuer catalog in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]issuer.Info, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT address, pub_key_hash, name, document_types FROM issuers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list issuers: %w", err)
	}
	defer rows.Close()

	var out []issuer.Info
	for rows.Next() {
		var info issuer.Info
		if err := rows.Scan(&info.Address, &info.PubKeyHash, &info.Name, pq.Array(&info.DocumentTypes)); err != nil {
			return nil, fmt.Errorf("scan issuer: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindByKey(ctx context.Context, pubKeyHash string) (issuer.Info, error) {
	var info issuer.Info
	err := s.db.QueryRowContext(ctx,
		`SELECT address, pub_key_hash, name, document_types FROM issuers WHERE pub_key_hash = $1`,
		pubKeyHash,
	).Scan(&info.Address, &info.PubKeyHash, &info.Name, pq.Array(&info.DocumentTypes))
	if errors.Is(err, sql.ErrNoRows) {
		return issuer.Info{}, sentinel.ErrNotFound
	}
	if err != nil {
		return issuer.Info{}, fmt.Errorf("find issuer: %w", err)
	}
	return info, nil
}

func (s *PostgresStore) Add(ctx context.Context, info issuer.Info) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO issuers (address, pub_key_hash, name, document_types)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (pub_key_hash) DO NOTHING`,
		info.Address, info.PubKeyHash, info.Name, pq.Array(info.DocumentTypes))
	if err != nil {
		return fmt.Errorf("add issuer: %w", err)
	}
	return nil
}
