// Package otp implements the demo email-code login flow.
package otp

import (
	"context"
	"time"
)

// Store keeps one pending code per email with a TTL.
type Store interface {
	// Save overwrites any pending code for the email.
	Save(ctx context.Context, email, code string, ttl time.Duration) error
	// Find returns sentinel.ErrNotFound when no live code exists.
	Find(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

// Sender delivers a code to the user.
type Sender interface {
	Send(ctx context.Context, email, code string) error
}
