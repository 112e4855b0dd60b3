package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/internal/document"
	docstore "civicledger/internal/document/store"
	"civicledger/internal/platform/config"
	"civicledger/internal/share/service"
	"civicledger/internal/share/store"
	"civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

func newService(t *testing.T, now *time.Time) *service.Service {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	svc := service.New(store.NewMemoryStore(), nil, nil, logger, nil)
	if now != nil {
		svc.WithClock(func() time.Time { return *now })
	}
	return svc
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "", []string{"Passport"}, nil)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeBadRequest))

	_, err = svc.Create(ctx, "aabbcc", nil, nil)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeBadRequest))
}

func TestCreate_SetsTTLWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(t, &now)

	session, err := svc.Create(context.Background(), "aabbcc", []string{"Passport"}, nil)
	require.NoError(t, err)
	assert.Len(t, session.ShortID, 8)
	assert.Equal(t, now, session.CreatedAt)
	assert.Equal(t, now.Add(config.ShareSessionTTL), session.ExpiresAt)
}

func TestResolve_ExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(t, &now)
	ctx := context.Background()

	session, err := svc.Create(ctx, "aabbcc", []string{"Passport"}, nil)
	require.NoError(t, err)

	// one second before expiry: still served
	now = session.ExpiresAt.Add(-time.Second)
	got, err := svc.Resolve(ctx, session.ShortID)
	require.NoError(t, err)
	assert.Equal(t, session.ShortID, got.ShortID)

	// one second past expiry: evicted
	now = session.ExpiresAt.Add(time.Second)
	_, err = svc.Resolve(ctx, session.ShortID)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
	assert.ErrorIs(t, err, sentinel.ErrExpired)

	// no resurrection, even if the clock were wound back; the session is
	// gone, not merely expired
	now = session.ExpiresAt.Add(-time.Minute)
	_, err = svc.Resolve(ctx, session.ShortID)
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
	assert.NotErrorIs(t, err, sentinel.ErrExpired)
}

func TestResolve_UnknownShortID(t *testing.T) {
	svc := newService(t, nil)
	_, err := svc.Resolve(context.Background(), "nope1234")
	assert.True(t, domainerrors.Is(err, domainerrors.CodeNotFound))
}

// Omitted metadata falls back to the owner's most recent local record per
// shared type; types without a record stay absent, and explicit metadata
// always wins over the stored records.
func TestCreate_FillsMetadataFromLocalRecords(t *testing.T) {
	records := docstore.NewMemoryRecordStore()
	ctx := context.Background()

	_, err := records.Add(ctx, "aabbcc", document.Record{
		Hash:         "hash-old",
		DocumentType: "Passport",
		Timestamp:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Metadata:     map[string]string{"expiry": "2027-01-01"},
	})
	require.NoError(t, err)
	_, err = records.Add(ctx, "aabbcc", document.Record{
		Hash:         "hash-new",
		DocumentType: "Passport",
		Timestamp:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Metadata:     map[string]string{"expiry": "2030-06-01", "dob": "1990-01-15"},
	})
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	svc := service.New(store.NewMemoryStore(), records, nil, logger, nil)

	session, err := svc.Create(ctx, "aabbcc", []string{"Passport", "Aadhar"}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"expiry": "2030-06-01", "dob": "1990-01-15"}, session.Metadata["Passport"])
	assert.NotContains(t, session.Metadata, "Aadhar")

	explicit := map[string]map[string]string{"Passport": {"expiry": "1999-01-01"}}
	session, err = svc.Create(ctx, "aabbcc", []string{"Passport"}, explicit)
	require.NoError(t, err)
	assert.Equal(t, "1999-01-01", session.Metadata["Passport"]["expiry"])
}

func TestCreate_ManySessionsGetDistinctIDs(t *testing.T) {
	svc := newService(t, nil)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := svc.Create(ctx, "aabbcc", []string{"Passport"}, nil)
		require.NoError(t, err)
		assert.False(t, seen[session.ShortID])
		seen[session.ShortID] = true
	}
}
