package userregistry

import (
	"context"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"strings"
	"time"

	"civicledger/internal/identity"
	dErrors "civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

// Registrar exposes the ledger-side registration a new identity needs.
type Registrar interface {
	RegisterUser(ctx context.Context, pubKeyHash string, isIssuer bool) error
}

// Service creates and looks up custodial identities.
type Service struct {
	store  Store
	keys   *KeyBox
	chain  Registrar
	logger *slog.Logger
}

func NewService(store Store, keys *KeyBox, chain Registrar, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		keys:   keys,
		chain:  chain,
		logger: logger,
	}
}

// EnsureUser returns the identity registered for email, minting and
// registering a fresh keypair on first sight.
func (s *Service) EnsureUser(ctx context.Context, email string) (User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return User{}, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load user", err)
	}

	pair, err := identity.Generate()
	if err != nil {
		return User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to generate identity", err)
	}
	sealed, err := s.keys.Seal(pair.Private)
	if err != nil {
		return User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to seal identity key", err)
	}

	user = User{
		Email:        email,
		Address:      pair.Address,
		EncryptedKey: sealed,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Save(ctx, user); err != nil {
		// Lost a race with a concurrent first login; the stored record wins.
		if errors.Is(err, sentinel.ErrConflict) {
			return s.store.FindByEmail(ctx, email)
		}
		return User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to save user", err)
	}

	if err := s.chain.RegisterUser(ctx, identity.PubKeyHash(pair.Address), false); err != nil && !errors.Is(err, sentinel.ErrConflict) {
		s.logger.WarnContext(ctx, "ledger registration failed for new user",
			"email", email,
			"error", err.Error(),
		)
	}

	s.logger.InfoContext(ctx, "registered new user identity", "email", email, "address", pair.Address)
	return user, nil
}

// PrivateKey unseals the stored signing key for email.
func (s *Service) PrivateKey(ctx context.Context, email string) (ed25519.PrivateKey, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to load user", err)
	}
	priv, err := s.keys.Open(user.EncryptedKey)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "failed to unseal identity key", err)
	}
	return priv, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
