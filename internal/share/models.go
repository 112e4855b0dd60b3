// Package share implements short-lived proof sessions: an owner mints a
// session over a set of document types, and verifiers resolve it by its
// short id until it expires.
package share

import (
	"context"
	"time"
)

// Session is one share session. Metadata carries, per document type, the
// sparse fields predicate checks run against.
type Session struct {
	ShortID      string                       `json:"shortId"`
	OwnerAddress string                       `json:"ownerAddress"`
	DocTypes     []string                     `json:"docTypes"`
	Metadata     map[string]map[string]string `json:"metadata"`
	CreatedAt    time.Time                    `json:"createdAt"`
	ExpiresAt    time.Time                    `json:"expiresAt"`
}

// Store is the session persistence port. Save must refuse an existing
// short id with sentinel.ErrConflict so the service can retry with a fresh
// one instead of silently overwriting.
type Store interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, shortID string) (Session, error)
	Delete(ctx context.Context, shortID string) error
}
