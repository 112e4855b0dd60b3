// Package identity holds the key material and signature conventions shared
// by requesters, issuers and the ledger. Addresses are hex-encoded Ed25519
// public keys; the ledger and issuer binding never see a raw address, only
// its content-addressed hash.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Action names the issuer operations that can be signed.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// appName prefixes every canonical message so signatures from other
// deployments cannot be replayed here.
const appName = "CivicLedger"

// KeyPair is the signing identity of a requester or issuer.
type KeyPair struct {
	Address string
	Private ed25519.PrivateKey
}

// Generate creates a fresh Ed25519 key pair.
func Generate() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate key pair: %w", err)
	}
	return KeyPair{Address: AddressFromPublic(pub), Private: priv}, nil
}

// FromPrivate rebuilds a key pair from stored private key material.
func FromPrivate(priv ed25519.PrivateKey) KeyPair {
	pub := priv.Public().(ed25519.PublicKey)
	return KeyPair{Address: AddressFromPublic(pub), Private: priv}
}

// AddressFromPublic derives the address for a public key.
func AddressFromPublic(pub ed25519.PublicKey) string {
	return hex.EncodeToString(pub)
}

// PublicFromAddress recovers the public key encoded in an address.
func PublicFromAddress(address string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(address))
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("address is not a %d-byte public key", ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// PubKeyHash is the content-addressed identity key used by the ledger and
// for issuer binding. Addresses are normalized before hashing so case and
// whitespace differences cannot split one identity into two.
func PubKeyHash(address string) string {
	normalized := strings.ToLower(strings.TrimSpace(address))
	sum := sha256.Sum256([]byte(normalized))
	return "0x" + hex.EncodeToString(sum[:])
}

// CanonicalMessage is the exact byte string an issuer signs for an action on
// a specific request. Binding the request id into the message prevents one
// signature from authorizing any other request.
func CanonicalMessage(action Action, requestID string) []byte {
	return []byte(fmt.Sprintf("%s: %s request %s", appName, action, requestID))
}

// SignAction signs the canonical message for (action, requestID) and returns
// a base64 signature.
func SignAction(kp KeyPair, action Action, requestID string) string {
	sig := ed25519.Sign(kp.Private, CanonicalMessage(action, requestID))
	return base64.StdEncoding.EncodeToString(sig)
}

// VerifyActionSignature checks that signature authorizes (action, requestID)
// and was produced by the key behind address. Any decode failure is an
// invalid signature, not an error.
func VerifyActionSignature(address string, action Action, requestID, signature string) bool {
	pub, err := PublicFromAddress(address)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return ed25519.Verify(pub, CanonicalMessage(action, requestID), sig)
}
