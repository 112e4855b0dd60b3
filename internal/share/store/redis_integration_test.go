//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/internal/share"
	"civicledger/internal/share/store"
	"civicledger/pkg/platform/sentinel"
	"civicledger/pkg/testutil/containers"
)

func newSession(shortID string, ttl time.Duration) share.Session {
	now := time.Now()
	return share.Session{
		ShortID:      shortID,
		OwnerAddress: "a1b2c3d4e5f6a7b8",
		DocTypes:     []string{"Passport"},
		Metadata: map[string]map[string]string{
			"Passport": {"dob": "1990-01-15", "expiry": "2030-06-01"},
		},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestRedisStore_SaveFindDelete(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	s := store.NewRedisStore(rc.Client)
	session := newSession("abc123xy", time.Minute)

	require.NoError(t, s.Save(ctx, session))

	found, err := s.Find(ctx, "abc123xy")
	require.NoError(t, err)
	assert.Equal(t, session.OwnerAddress, found.OwnerAddress)
	assert.Equal(t, session.DocTypes, found.DocTypes)
	assert.Equal(t, "1990-01-15", found.Metadata["Passport"]["dob"])

	require.NoError(t, s.Delete(ctx, "abc123xy"))
	_, err = s.Find(ctx, "abc123xy")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisStore_SaveRejectsDuplicateShortID(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	s := store.NewRedisStore(rc.Client)
	require.NoError(t, s.Save(ctx, newSession("dupe1234", time.Minute)))

	err := s.Save(ctx, newSession("dupe1234", time.Minute))
	require.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestRedisStore_TTLEvicts(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	s := store.NewRedisStore(rc.Client)
	require.NoError(t, s.Save(ctx, newSession("ttl12345", 2*time.Second)))

	require.Eventually(t, func() bool {
		_, err := s.Find(ctx, "ttl12345")
		return err != nil
	}, 10*time.Second, 250*time.Millisecond, "session should expire with its redis TTL")
}
