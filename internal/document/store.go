package document

import (
	"context"
	"time"
)

// Record is one locally-known document claim for an owner. The content
// itself is never stored; only its digest and the sparse metadata.
type Record struct {
	Hash          string            `json:"hash"`
	DocumentType  string            `json:"documentType"`
	IssuerKeyHash string            `json:"issuerKeyHash"`
	Timestamp     time.Time         `json:"timestamp"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// RecordStore keeps the per-owner local record set. All operations key by
// owner address so one owner's documents are never visible under another.
type RecordStore interface {
	// Add inserts a record unless one with the same hash already exists for
	// the owner. Returns false on the idempotent no-op.
	Add(ctx context.Context, ownerAddress string, rec Record) (bool, error)

	// ListByOwner returns the owner's records in insertion order.
	ListByOwner(ctx context.Context, ownerAddress string) ([]Record, error)

	// MetadataByType returns, per document type, the metadata of the most
	// recent record carrying any.
	MetadataByType(ctx context.Context, ownerAddress string) (map[string]map[string]string, error)
}
