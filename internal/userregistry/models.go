// Package userregistry keeps the demo-mode custodial identities: one
// Ed25519 keypair per email address, private key stored encrypted at
// rest so OTP login can sign on the user's behalf.
package userregistry

import (
	"context"
	"time"
)

// User is one registered identity.
type User struct {
	Email        string
	Address      string
	EncryptedKey []byte
	CreatedAt    time.Time
}

// Store persists user records keyed by email.
type Store interface {
	// Save persists a user. Returns sentinel.ErrConflict when the email
	// is already registered.
	Save(ctx context.Context, user User) error
	// FindByEmail returns sentinel.ErrNotFound for unknown emails.
	FindByEmail(ctx context.Context, email string) (User, error)
}
