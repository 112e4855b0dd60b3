package document

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"civicledger/internal/identity"
	"civicledger/internal/platform/metrics"
	"civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

// LedgerWriter is the slice of the ledger the pipeline needs.
type LedgerWriter interface {
	RecordDocument(ctx context.Context, pubKeyHash, docHash, issuerKeyHash, docType string) error
}

// ApprovedDocument is the payload handed to the pipeline once a request
// reaches the approved state.
type ApprovedDocument struct {
	RequestID     string
	DocumentType  string
	IssuerKeyHash string
	Fields        map[string]string
	Content       Payload
}

// Pipeline turns an approved document into a content digest, a local
// record, and a ledger claim. Every step is idempotent so callers can
// simply re-run the whole pipeline after a partial failure.
type Pipeline struct {
	records RecordStore
	ledger  LedgerWriter
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPipeline(records RecordStore, ledger LedgerWriter, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		records: records,
		ledger:  ledger,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// WithClock overrides the pipeline clock for tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Digest computes the hex SHA-256 content digest committed to the ledger.
func Digest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ProcessApproved runs the full pipeline under the owner's signing key.
// The raw content is discarded after hashing; only the digest and sparse
// metadata survive this call.
func (p *Pipeline) ProcessApproved(ctx context.Context, doc ApprovedDocument, ownerKey ed25519.PrivateKey) error {
	ctx, span := otel.Tracer("civicledger/document").Start(ctx, "pipeline.process_approved",
		trace.WithAttributes(attribute.String("document.type", doc.DocumentType)))
	defer span.End()

	if doc.Content.Empty() {
		return domainerrors.New(domainerrors.CodeBadRequest, "document content is required")
	}
	raw, err := doc.Content.Bytes()
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeBadRequest, "document content is not decodable", err)
	}

	docHash := Digest(raw)
	meta := ExtractMetadata(doc.DocumentType, doc.Fields)
	owner := identity.FromPrivate(ownerKey)

	added, err := p.records.Add(ctx, owner.Address, Record{
		Hash:          docHash,
		DocumentType:  doc.DocumentType,
		IssuerKeyHash: doc.IssuerKeyHash,
		Timestamp:     p.now(),
		Metadata:      meta,
	})
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeInternal, "failed to store local record", err)
	}
	if !added {
		p.metrics.IncDuplicateDocuments()
	}

	err = p.ledger.RecordDocument(ctx, identity.PubKeyHash(owner.Address), docHash, doc.IssuerKeyHash, doc.DocumentType)
	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrAlreadyRecorded):
		// Reprocessing the same approval is expected; the claim is on the
		// ledger, which is all that matters.
		p.logger.InfoContext(ctx, "document already recorded on ledger",
			"request_id", doc.RequestID,
			"document_type", doc.DocumentType,
		)
	case errors.Is(err, sentinel.ErrNotRegistered):
		return domainerrors.Wrap(domainerrors.CodeConflict, "owner is not registered on the ledger", err)
	default:
		return domainerrors.Wrap(domainerrors.CodeUnavailable, "ledger write failed", err)
	}

	p.metrics.IncDocumentsProcessed()
	return nil
}
