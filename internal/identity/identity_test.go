package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAction_RoundTrip(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	sig := SignAction(kp, ActionApprove, "req-1")
	assert.True(t, VerifyActionSignature(kp.Address, ActionApprove, "req-1", sig))
}

func TestVerifyActionSignature_RejectsOtherRequest(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	sig := SignAction(kp, ActionApprove, "req-1")
	assert.False(t, VerifyActionSignature(kp.Address, ActionApprove, "req-2", sig))
}

func TestVerifyActionSignature_RejectsOtherAction(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	sig := SignAction(kp, ActionApprove, "req-1")
	assert.False(t, VerifyActionSignature(kp.Address, ActionReject, "req-1", sig))
}

func TestVerifyActionSignature_RejectsOtherSigner(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)
	other, err := Generate()
	require.NoError(t, err)

	sig := SignAction(kp, ActionApprove, "req-1")
	assert.False(t, VerifyActionSignature(other.Address, ActionApprove, "req-1", sig))
}

func TestVerifyActionSignature_GarbageInputs(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	assert.False(t, VerifyActionSignature("not-hex", ActionApprove, "req-1", "xx"))
	assert.False(t, VerifyActionSignature(kp.Address, ActionApprove, "req-1", "not-base64!!!"))
	assert.False(t, VerifyActionSignature("abcd", ActionApprove, "req-1", SignAction(kp, ActionApprove, "req-1")))
}

func TestPubKeyHash_NormalizesAddress(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	assert.Equal(t, PubKeyHash(kp.Address), PubKeyHash("  "+kp.Address+" "))
	assert.NotEqual(t, PubKeyHash(kp.Address), PubKeyHash(kp.Address+"00"))
	assert.Len(t, PubKeyHash(kp.Address), 2+64)
}

func TestFromPrivate_RecoversAddress(t *testing.T) {
	kp, err := Generate()
	require.NoError(t, err)

	rebuilt := FromPrivate(kp.Private)
	assert.Equal(t, kp.Address, rebuilt.Address)
}
