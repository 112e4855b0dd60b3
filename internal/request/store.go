package request

import (
	"context"

	"civicledger/internal/document"
)

// Store is the request persistence port. Implementations must make
// Finalize atomic with respect to the status check so the first terminal
// write wins even under concurrent approve/reject calls.
type Store interface {
	Save(ctx context.Context, req DocumentRequest) error
	FindByID(ctx context.Context, id string) (DocumentRequest, error)
	ListPendingForIssuer(ctx context.Context, issuerKey string) ([]DocumentRequest, error)
	ListApprovedForOwner(ctx context.Context, ownerAddress string) ([]DocumentRequest, error)

	// Finalize moves a pending request to a terminal status, storing content
	// on approval. Returns sentinel.ErrNotFound for unknown ids and
	// sentinel.ErrInvalidState when the request is already finalized.
	Finalize(ctx context.Context, id string, status Status, content *document.Payload) error
}
