package verify

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"civicledger/internal/audit"
	"civicledger/internal/identity"
	"civicledger/internal/platform/metrics"
	"civicledger/internal/share"
)

const adultAge = 18

// SessionResolver yields a live share session for a short id.
type SessionResolver interface {
	Resolve(ctx context.Context, shortID string) (share.Session, error)
}

// DocumentTypesReader reads the document types a user holds on the ledger.
type DocumentTypesReader interface {
	GetUserDocumentTypes(ctx context.Context, pubKeyHash string) ([]string, error)
}

// Service evaluates share sessions against ledger state and the
// verifier's requested predicates.
type Service struct {
	sessions SessionResolver
	chain    DocumentTypesReader
	audit    *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func New(sessions SessionResolver, chain DocumentTypesReader, auditPub *audit.Publisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		sessions: sessions,
		chain:    chain,
		audit:    auditPub,
		logger:   logger,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Verify resolves the share session behind shortID and evaluates every
// requested document type against the ledger and the session metadata.
// Document types the session does not cover are silently dropped; when
// nothing remains the result is valid with no per-document entries.
func (s *Service) Verify(ctx context.Context, shortID string, p Params) (Result, error) {
	ctx, span := otel.Tracer("verify").Start(ctx, "verify.check")
	defer span.End()
	span.SetAttributes(attribute.String("share.short_id", shortID))

	start := s.now()

	session, err := s.sessions.Resolve(ctx, shortID)
	if err != nil {
		return Result{}, err
	}

	targets := intersect(p.DocTypes, session.DocTypes)

	onChain := map[string]struct{}{}
	if len(targets) > 0 {
		types, err := s.chain.GetUserDocumentTypes(ctx, identity.PubKeyHash(session.OwnerAddress))
		if err != nil {
			// A document we cannot confirm is a document we do not trust.
			s.logger.WarnContext(ctx, "ledger lookup failed during verification",
				"short_id", shortID,
				"error", err.Error(),
			)
		}
		for _, t := range types {
			onChain[t] = struct{}{}
		}
	}

	result := Result{
		Valid:    true,
		Address:  session.OwnerAddress,
		DocTypes: session.DocTypes,
		Results:  make([]DocResult, 0, len(targets)),
	}

	for _, docType := range targets {
		meta := session.Metadata[docType]

		_, recorded := onChain[docType]
		dr := DocResult{
			DocumentType: docType,
			OnChain:      recorded,
			Metadata:     meta,
		}
		if !recorded {
			result.Valid = false
		}

		if p.RequireAge18 {
			dr.AgeCheck = s.checkAge(meta["dob"])
			if dr.AgeCheck.Passed != nil && !*dr.AgeCheck.Passed {
				result.Valid = false
			}
		}
		if p.RequireNotExpired {
			dr.ExpiryCheck = s.checkExpiry(meta["expiry"])
			if dr.ExpiryCheck.Passed != nil && !*dr.ExpiryCheck.Passed {
				result.Valid = false
			}
		}

		result.Results = append(result.Results, dr)
	}

	s.metrics.IncVerifications(result.Valid)
	s.metrics.ObserveVerifyLatency(s.now().Sub(start))
	s.audit.Emit(ctx, audit.Event{
		Type:    audit.EventVerificationPerformed,
		Actor:   session.OwnerAddress,
		Subject: shortID,
		Metadata: map[string]string{
			"valid": boolString(result.Valid),
		},
	})

	return result, nil
}

// checkAge evaluates the 18+ predicate from a date-of-birth string.
// Absent or unparsable dates leave the outcome unknown.
func (s *Service) checkAge(dob string) *Check {
	check := &Check{Required: true}
	born, ok := parseDate(dob)
	if !ok {
		return check
	}
	age := calendarAge(born, s.now())
	passed := age >= adultAge
	check.Passed = &passed
	check.Age = &age
	return check
}

// checkExpiry evaluates the not-expired predicate. A date-only expiry
// parses to midnight UTC, so anything past the start of the expiry day
// counts as expired.
func (s *Service) checkExpiry(expiry string) *Check {
	check := &Check{Required: true}
	until, ok := parseDate(expiry)
	if !ok {
		return check
	}
	passed := !s.now().After(until)
	check.Passed = &passed
	return check
}

// intersect keeps the requested types the session covers, in requested
// order. An empty request means everything the session shares.
func intersect(requested, shared []string) []string {
	if len(requested) == 0 {
		return shared
	}
	covered := make(map[string]struct{}, len(shared))
	for _, t := range shared {
		covered[t] = struct{}{}
	}
	var out []string
	for _, t := range requested {
		if _, ok := covered[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// calendarAge counts whole years between born and now, decrementing
// when this year's birthday has not yet arrived.
func calendarAge(born, now time.Time) int {
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
