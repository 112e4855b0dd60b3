//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/internal/document"
	"civicledger/internal/request"
	"civicledger/internal/request/store"
	"civicledger/pkg/platform/sentinel"
	"civicledger/pkg/testutil/containers"
)

func newPostgresStore(t *testing.T) *store.PostgresStore {
	t.Helper()
	pc := containers.NewPostgresContainer(t)
	require.NoError(t, store.EnsureSchema(context.Background(), pc.DB))
	return store.NewPostgresStore(pc.DB)
}

func pendingRequest(issuerKey string) request.DocumentRequest {
	return request.DocumentRequest{
		ID:               uuid.NewString(),
		RequesterID:      "asha@example.com",
		RequesterAddress: "a1b2c3d4e5f6a7b8",
		IssuerKey:        issuerKey,
		DocumentType:     "Passport",
		SubmittedFields:  map[string]string{"dob": "1990-01-15"},
		Status:           request.StatusPending,
		CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestPostgresStore_SaveAndFind(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	req := pendingRequest("0xissuer")
	require.NoError(t, s.Save(ctx, req))

	found, err := s.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, found.ID)
	assert.Equal(t, request.StatusPending, found.Status)
	assert.Equal(t, "1990-01-15", found.SubmittedFields["dob"])
	assert.Nil(t, found.Content)

	_, err = s.FindByID(ctx, "no-such-id")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_FinalizeOnceWins(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	req := pendingRequest("0xissuer")
	require.NoError(t, s.Save(ctx, req))

	content := document.NewJSONPayload(`{"passportNo":"P1234567"}`)
	require.NoError(t, s.Finalize(ctx, req.ID, request.StatusApproved, &content))

	err := s.Finalize(ctx, req.ID, request.StatusRejected, nil)
	require.ErrorIs(t, err, sentinel.ErrInvalidState)

	found, err := s.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, found.Status)
	require.NotNil(t, found.Content)
	assert.Equal(t, document.PayloadJSON, found.Content.Kind)

	err = s.Finalize(ctx, "no-such-id", request.StatusApproved, &content)
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresStore_Listing(t *testing.T) {
	s := newPostgresStore(t)
	ctx := context.Background()

	first := pendingRequest("0xissuer")
	second := pendingRequest("0xissuer")
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	other := pendingRequest("0xother")
	for _, req := range []request.DocumentRequest{first, second, other} {
		require.NoError(t, s.Save(ctx, req))
	}

	pending, err := s.ListPendingForIssuer(ctx, "0xissuer")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID, "pending inbox is ordered by creation time")

	content := document.NewJSONPayload(`{}`)
	require.NoError(t, s.Finalize(ctx, first.ID, request.StatusApproved, &content))

	approved, err := s.ListApprovedForOwner(ctx, "  A1B2C3D4E5F6A7B8  ")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, first.ID, approved[0].ID)

	pending, err = s.ListPendingForIssuer(ctx, "0xissuer")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}
