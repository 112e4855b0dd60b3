package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/pkg/platform/sentinel"
)

func TestMemoryStore_FindDistinguishesExpiredFromMissing(t *testing.T) {
	now := time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "asha@example.com", "482913", 5*time.Minute))

	code, err := store.Find(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "482913", code)

	_, err = store.Find(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	now = now.Add(5*time.Minute + time.Second)
	_, err = store.Find(ctx, "asha@example.com")
	assert.ErrorIs(t, err, sentinel.ErrExpired)

	// the expired entry is evicted; a second read reports it missing
	_, err = store.Find(ctx, "asha@example.com")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
