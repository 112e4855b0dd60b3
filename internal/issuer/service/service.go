package service

import (
	"context"
	"errors"
	"strings"

	"civicledger/internal/identity"
	"civicledger/internal/issuer"
	"civicledger/internal/ledger"
	"civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

// Service manages the issuer catalog. Registration also registers the
// issuer identity on the ledger so its attestations can be traced.
type Service struct {
	store issuer.Store
	chain ledger.Client
}

func New(store issuer.Store, chain ledger.Client) *Service {
	return &Service{store: store, chain: chain}
}

func (s *Service) List(ctx context.Context) ([]issuer.Info, error) {
	return s.store.List(ctx)
}

func (s *Service) GetByKey(ctx context.Context, pubKeyHash string) (issuer.Info, error) {
	info, err := s.store.FindByKey(ctx, pubKeyHash)
	if errors.Is(err, sentinel.ErrNotFound) {
		return issuer.Info{}, domainerrors.New(domainerrors.CodeNotFound, "issuer not found")
	}
	if err != nil {
		return issuer.Info{}, domainerrors.Wrap(domainerrors.CodeInternal, "failed to load issuer", err)
	}
	return info, nil
}

// Register adds an issuer to the catalog and to the ledger. Both sides are
// idempotent so a retried registration converges instead of failing.
func (s *Service) Register(ctx context.Context, address, name string, documentTypes []string) (issuer.Info, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return issuer.Info{}, domainerrors.New(domainerrors.CodeBadRequest, "address is required")
	}
	if strings.TrimSpace(name) == "" {
		return issuer.Info{}, domainerrors.New(domainerrors.CodeBadRequest, "name is required")
	}
	if len(documentTypes) == 0 {
		return issuer.Info{}, domainerrors.New(domainerrors.CodeBadRequest, "documentTypes is required")
	}

	info := issuer.Info{
		Address:       address,
		PubKeyHash:    identity.PubKeyHash(address),
		Name:          name,
		DocumentTypes: documentTypes,
	}
	if err := s.store.Add(ctx, info); err != nil {
		return issuer.Info{}, domainerrors.Wrap(domainerrors.CodeInternal, "failed to register issuer", err)
	}

	err := s.chain.RegisterUser(ctx, info.PubKeyHash, true)
	if err != nil && !errors.Is(err, sentinel.ErrConflict) {
		return issuer.Info{}, domainerrors.Wrap(domainerrors.CodeUnavailable, "ledger registration failed", err)
	}
	return info, nil
}
