package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"civicledger/internal/audit"
	"civicledger/internal/document"
	"civicledger/internal/identity"
	"civicledger/internal/issuer"
	"civicledger/internal/platform/metrics"
	"civicledger/internal/request"
	"civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

// IssuerCatalog is the slice of the issuer registry the lifecycle engine
// needs: resolving an issuer key to its declared document types.
type IssuerCatalog interface {
	FindByKey(ctx context.Context, pubKeyHash string) (issuer.Info, error)
}

// Service is the request lifecycle engine. Issuer actions are authorized by
// per-action signatures, never by caller identity claims.
type Service struct {
	store   request.Store
	issuers IssuerCatalog
	audit   *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func New(store request.Store, issuers IssuerCatalog, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		issuers: issuers,
		audit:   auditor,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// CreateParams carries the requester's submission.
type CreateParams struct {
	RequesterID      string
	RequesterAddress string
	IssuerKey        string
	DocumentType     string
	Fields           map[string]string
}

// Create validates the submission against the issuer catalog and persists a
// pending request.
func (s *Service) Create(ctx context.Context, p CreateParams) (string, error) {
	if strings.TrimSpace(p.RequesterAddress) == "" {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "requesterAddress is required")
	}
	if strings.TrimSpace(p.IssuerKey) == "" {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "issuerKey is required")
	}
	if strings.TrimSpace(p.DocumentType) == "" {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "documentType is required")
	}

	info, err := s.issuers.FindByKey(ctx, p.IssuerKey)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "unknown issuer")
	}
	if err != nil {
		return "", domainerrors.Wrap(domainerrors.CodeInternal, "failed to resolve issuer", err)
	}
	if !info.CanIssue(p.DocumentType) {
		return "", domainerrors.New(domainerrors.CodeBadRequest, "issuer does not handle this document type")
	}

	req := request.DocumentRequest{
		ID:               uuid.NewString(),
		RequesterID:      p.RequesterID,
		RequesterAddress: p.RequesterAddress,
		IssuerKey:        p.IssuerKey,
		DocumentType:     p.DocumentType,
		SubmittedFields:  p.Fields,
		Status:           request.StatusPending,
		CreatedAt:        s.now(),
	}
	if err := s.store.Save(ctx, req); err != nil {
		return "", domainerrors.Wrap(domainerrors.CodeInternal, "failed to save request", err)
	}

	s.metrics.IncRequestsCreated()
	s.audit.Emit(ctx, audit.Event{
		Type:    audit.EventRequestCreated,
		Actor:   p.RequesterAddress,
		Subject: req.ID,
		Metadata: map[string]string{
			"document_type": p.DocumentType,
			"issuer_key":    p.IssuerKey,
		},
	})
	return req.ID, nil
}

// Get returns a request by id.
func (s *Service) Get(ctx context.Context, id string) (request.DocumentRequest, error) {
	req, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return request.DocumentRequest{}, domainerrors.New(domainerrors.CodeNotFound, "request not found")
	}
	if err != nil {
		return request.DocumentRequest{}, domainerrors.Wrap(domainerrors.CodeInternal, "failed to load request", err)
	}
	return req, nil
}

// ListPendingForIssuer is the issuer's inbox.
func (s *Service) ListPendingForIssuer(ctx context.Context, issuerKey string) ([]request.DocumentRequest, error) {
	if strings.TrimSpace(issuerKey) == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "issuerKey is required")
	}
	reqs, err := s.store.ListPendingForIssuer(ctx, issuerKey)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "failed to list pending requests", err)
	}
	return reqs, nil
}

// ListApprovedForOwner backs the owner's reconciliation poll.
func (s *Service) ListApprovedForOwner(ctx context.Context, ownerAddress string) ([]request.DocumentRequest, error) {
	if strings.TrimSpace(ownerAddress) == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "ownerAddress is required")
	}
	reqs, err := s.store.ListApprovedForOwner(ctx, ownerAddress)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "failed to list approved requests", err)
	}
	return reqs, nil
}

// Approve finalizes a pending request with content. Preconditions are
// checked in a fixed order and the first failure wins, so error kinds stay
// stable for clients.
func (s *Service) Approve(ctx context.Context, id, issuerAddress, signature string, content document.Payload) error {
	req, err := s.authorize(ctx, id, issuerAddress, identity.ActionApprove, signature)
	if err != nil {
		return err
	}
	if content.Empty() {
		// Proof-carrying approval: an approval without the verified document
		// is meaningless.
		return domainerrors.New(domainerrors.CodeBadRequest, "document content is required to approve")
	}

	if err := s.finalize(ctx, req.ID, request.StatusApproved, &content); err != nil {
		return err
	}

	s.metrics.IncRequestsFinalized("approved")
	s.audit.Emit(ctx, audit.Event{
		Type:     audit.EventRequestApproved,
		Actor:    issuerAddress,
		Subject:  req.ID,
		Metadata: map[string]string{"document_type": req.DocumentType},
	})
	return nil
}

// Reject finalizes a pending request without content.
func (s *Service) Reject(ctx context.Context, id, issuerAddress, signature string) error {
	req, err := s.authorize(ctx, id, issuerAddress, identity.ActionReject, signature)
	if err != nil {
		return err
	}

	if err := s.finalize(ctx, req.ID, request.StatusRejected, nil); err != nil {
		return err
	}

	s.metrics.IncRequestsFinalized("rejected")
	s.audit.Emit(ctx, audit.Event{
		Type:     audit.EventRequestRejected,
		Actor:    issuerAddress,
		Subject:  req.ID,
		Metadata: map[string]string{"document_type": req.DocumentType},
	})
	return nil
}

// authorize runs preconditions 1-4: existence, pending status, issuer-key
// binding, signature. The issuer-key check binds the signer to the
// request's intended issuer without trusting the caller's claimed identity.
func (s *Service) authorize(ctx context.Context, id, issuerAddress string, action identity.Action, signature string) (request.DocumentRequest, error) {
	req, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return request.DocumentRequest{}, domainerrors.New(domainerrors.CodeNotFound, "request not found")
	}
	if err != nil {
		return request.DocumentRequest{}, domainerrors.Wrap(domainerrors.CodeInternal, "failed to load request", err)
	}
	if req.Status.Terminal() {
		return request.DocumentRequest{}, domainerrors.New(domainerrors.CodeConflict, "request already finalized")
	}
	if identity.PubKeyHash(issuerAddress) != req.IssuerKey {
		return request.DocumentRequest{}, domainerrors.New(domainerrors.CodeForbidden, "issuer mismatch")
	}
	if !identity.VerifyActionSignature(issuerAddress, action, req.ID, signature) {
		return request.DocumentRequest{}, domainerrors.New(domainerrors.CodeForbidden, "invalid signature")
	}
	return req, nil
}

func (s *Service) finalize(ctx context.Context, id string, status request.Status, content *document.Payload) error {
	err := s.store.Finalize(ctx, id, status, content)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return domainerrors.New(domainerrors.CodeNotFound, "request not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		// Lost the race against another terminal write.
		return domainerrors.New(domainerrors.CodeConflict, "request already finalized")
	default:
		return domainerrors.Wrap(domainerrors.CodeInternal, "failed to finalize request", err)
	}
}
