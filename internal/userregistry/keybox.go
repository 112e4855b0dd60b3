package userregistry

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLength = 16
	keyLength  = 32

	// scrypt cost parameters, interactive profile
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// KeyBox seals private keys with AES-256-GCM under a key derived from
// the application secret. Each sealed blob carries its own salt and
// nonce: salt || nonce || ciphertext.
type KeyBox struct {
	secret []byte
}

func NewKeyBox(secret string) *KeyBox {
	return &KeyBox{secret: []byte(secret)}
}

func (b *KeyBox) Seal(priv ed25519.PrivateKey) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := b.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, saltLength+len(nonce)+len(priv)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, priv, nil), nil
}

func (b *KeyBox) Open(sealed []byte) (ed25519.PrivateKey, error) {
	if len(sealed) < saltLength {
		return nil, fmt.Errorf("sealed key too short")
	}
	salt, rest := sealed[:saltLength], sealed[saltLength:]

	gcm, err := b.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("sealed key too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed key: %w", err)
	}
	if len(plain) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("sealed key is not an ed25519 private key")
	}
	return ed25519.PrivateKey(plain), nil
}

func (b *KeyBox) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(b.secret, salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
