package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"civicledger/internal/audit"
	"civicledger/internal/platform/config"
	"civicledger/internal/platform/metrics"
	"civicledger/internal/share"
	"civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

const (
	shortIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	shortIDLength   = 8
	// saveAttempts bounds collision retries. At 36^8 ids and a 10 minute
	// window, a second collision in a row means something is badly wrong.
	saveAttempts = 5
)

// MetadataSource yields the owner's locally-known document metadata, used
// to fill a session when the client does not send metadata itself.
type MetadataSource interface {
	MetadataByType(ctx context.Context, ownerAddress string) (map[string]map[string]string, error)
}

// Service mints and resolves share sessions.
type Service struct {
	store   share.Store
	records MetadataSource
	audit   *audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	ttl     time.Duration
	now     func() time.Time
}

func New(store share.Store, records MetadataSource, auditor *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:   store,
		records: records,
		audit:   auditor,
		logger:  logger,
		metrics: m,
		ttl:     config.ShareSessionTTL,
		now:     time.Now,
	}
}

// WithClock overrides the service clock for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create mints a session over the given document types. When the client
// sends no metadata, the owner's most recent local record per type fills
// it in; only predicate checks consume it either way.
func (s *Service) Create(ctx context.Context, ownerAddress string, docTypes []string, metadata map[string]map[string]string) (share.Session, error) {
	if strings.TrimSpace(ownerAddress) == "" {
		return share.Session{}, domainerrors.New(domainerrors.CodeBadRequest, "ownerAddress is required")
	}
	if len(docTypes) == 0 {
		return share.Session{}, domainerrors.New(domainerrors.CodeBadRequest, "docTypes must be a non-empty list")
	}
	if len(metadata) == 0 {
		metadata = s.knownMetadata(ctx, ownerAddress, docTypes)
	}

	now := s.now()
	session := share.Session{
		OwnerAddress: ownerAddress,
		DocTypes:     docTypes,
		Metadata:     metadata,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
	}

	for attempt := 0; attempt < saveAttempts; attempt++ {
		session.ShortID = generateShortID()
		err := s.store.Save(ctx, session)
		if errors.Is(err, sentinel.ErrConflict) {
			continue
		}
		if err != nil {
			return share.Session{}, domainerrors.Wrap(domainerrors.CodeInternal, "failed to save share session", err)
		}
		s.metrics.IncSharesCreated()
		s.audit.Emit(ctx, audit.Event{
			Type:     audit.EventShareCreated,
			Actor:    ownerAddress,
			Subject:  session.ShortID,
			Metadata: map[string]string{"doc_types": strings.Join(docTypes, ",")},
		})
		return session, nil
	}
	return share.Session{}, domainerrors.New(domainerrors.CodeInternal, "could not allocate a share id")
}

// knownMetadata pulls the owner's stored metadata for the shared types. A
// record-store failure degrades to an empty map; the session is still
// mintable, its predicate checks just come back unknown.
func (s *Service) knownMetadata(ctx context.Context, ownerAddress string, docTypes []string) map[string]map[string]string {
	out := map[string]map[string]string{}
	if s.records == nil {
		return out
	}
	known, err := s.records.MetadataByType(ctx, ownerAddress)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load local metadata for share session",
			"owner", ownerAddress,
			"error", err.Error(),
		)
		return out
	}
	for _, docType := range docTypes {
		if meta, ok := known[docType]; ok {
			out[docType] = meta
		}
	}
	return out
}

// Resolve returns a live session. Reading past expiry deletes the record,
// so an expired short id can never be resurrected.
func (s *Service) Resolve(ctx context.Context, shortID string) (share.Session, error) {
	session, err := s.store.Find(ctx, shortID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return share.Session{}, domainerrors.New(domainerrors.CodeNotFound, "share session expired or not found")
	}
	if err != nil {
		return share.Session{}, domainerrors.Wrap(domainerrors.CodeInternal, "failed to load share session", err)
	}
	if s.now().After(session.ExpiresAt) {
		if err := s.store.Delete(ctx, shortID); err != nil {
			s.logger.WarnContext(ctx, "failed to evict expired share session",
				"short_id", shortID,
				"error", err.Error(),
			)
		}
		return share.Session{}, domainerrors.Wrap(domainerrors.CodeNotFound, "share session expired or not found", sentinel.ErrExpired)
	}
	return session, nil
}

func generateShortID() string {
	max := big.NewInt(int64(len(shortIDAlphabet)))
	id := make([]byte, shortIDLength)
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform is broken
			panic(err)
		}
		id[i] = shortIDAlphabet[n.Int64()]
	}
	return string(id)
}
