package userregistry_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicledger/internal/identity"
	"civicledger/internal/ledger"
	"civicledger/internal/userregistry"
	"civicledger/internal/userregistry/store"
	dErrors "civicledger/pkg/domainerrors"
)

func newService(t *testing.T) (*userregistry.Service, *ledger.MemoryLedger) {
	t.Helper()
	chain := ledger.NewMemoryLedger()
	svc := userregistry.NewService(
		store.NewMemoryStore(),
		userregistry.NewKeyBox("test-secret"),
		chain,
		slog.New(slog.DiscardHandler),
	)
	return svc, chain
}

func TestEnsureUser_MintsIdentityOnce(t *testing.T) {
	svc, chain := newService(t)
	ctx := context.Background()

	first, err := svc.EnsureUser(ctx, "Asha@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", first.Email)
	assert.NotEmpty(t, first.Address)
	assert.NotEmpty(t, first.EncryptedKey)

	registered, err := chain.UserExists(ctx, identity.PubKeyHash(first.Address))
	require.NoError(t, err)
	assert.True(t, registered)

	second, err := svc.EnsureUser(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.Address, second.Address, "repeat login must keep the same identity")
}

func TestEnsureUser_RequiresEmail(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.EnsureUser(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeBadRequest, dErrors.CodeOf(err))
}

func TestPrivateKey_RoundTripsThroughSeal(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	user, err := svc.EnsureUser(ctx, "asha@example.com")
	require.NoError(t, err)

	priv, err := svc.PrivateKey(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.Address, identity.FromPrivate(priv).Address)
}

func TestPrivateKey_UnknownUser(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.PrivateKey(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func TestKeyBox_RejectsTamperedBlob(t *testing.T) {
	box := userregistry.NewKeyBox("test-secret")
	pair, err := identity.Generate()
	require.NoError(t, err)

	sealed, err := box.Seal(pair.Private)
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xff
	_, err = box.Open(sealed)
	require.Error(t, err)
}

func TestKeyBox_WrongSecret(t *testing.T) {
	pair, err := identity.Generate()
	require.NoError(t, err)

	sealed, err := userregistry.NewKeyBox("secret-a").Seal(pair.Private)
	require.NoError(t, err)

	_, err = userregistry.NewKeyBox("secret-b").Open(sealed)
	require.Error(t, err)
}
