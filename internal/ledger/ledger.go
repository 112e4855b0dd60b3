// Package ledger defines the contract with the external append-only ledger
// that records per-identity document-type claims. Every lookup key is a
// pubkey hash, never a raw address.
package ledger

import "context"

//go:generate mockgen -source=ledger.go -destination=mocks/mocks.go -package=mocks Client

// Client is the five-method surface the rest of the system depends on.
// Write methods wait for confirmation; there is no background tracking.
type Client interface {
	// UserExists reports whether an identity was ever registered.
	UserExists(ctx context.Context, pubKeyHash string) (bool, error)

	// RegisterUser creates an identity. Registering an existing identity
	// returns sentinel.ErrConflict.
	RegisterUser(ctx context.Context, pubKeyHash string, isIssuer bool) error

	// RecordDocument appends a document claim under an identity. Recording
	// the same (identity, hash, type) triple twice returns
	// sentinel.ErrAlreadyRecorded; unknown identities return
	// sentinel.ErrNotRegistered.
	RecordDocument(ctx context.Context, pubKeyHash, docHash, issuerKeyHash, docType string) error

	// GetUserDocumentTypes lists the distinct document types claimed by an
	// identity.
	GetUserDocumentTypes(ctx context.Context, pubKeyHash string) ([]string, error)

	// GetIssuerDocumentTypes lists the distinct document types an issuer has
	// attested across all identities.
	GetIssuerDocumentTypes(ctx context.Context, pubKeyHash string) ([]string, error)
}
