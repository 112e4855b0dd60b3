package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"civicledger/internal/audit"
	"civicledger/internal/platform/config"
	"civicledger/internal/userregistry"
	dErrors "civicledger/pkg/domainerrors"
	"civicledger/pkg/platform/sentinel"
)

const (
	codeDigits  = 6
	tokenExpiry = 24 * time.Hour
)

// TokenMinter issues an access token for a verified identity.
type TokenMinter interface {
	GenerateAccessToken(address, email string, expiresIn time.Duration) (string, error)
}

// Service issues and verifies one-time login codes. A successful
// verification registers the user on first sight and returns a signed
// access token.
type Service struct {
	store  Store
	sender Sender
	users  *userregistry.Service
	tokens TokenMinter
	audit  *audit.Publisher
	logger *slog.Logger
	ttl    time.Duration
}

func NewService(store Store, sender Sender, users *userregistry.Service, tokens TokenMinter, auditPub *audit.Publisher, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		sender: sender,
		users:  users,
		tokens: tokens,
		audit:  auditPub,
		logger: logger,
		ttl:    config.OTPTTL,
	}
}

// Send issues a fresh code to email, replacing any pending one.
func (s *Service) Send(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return dErrors.New(dErrors.CodeBadRequest, "a valid email is required")
	}

	code, err := generateCode()
	if err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to generate code", err)
	}
	if err := s.store.Save(ctx, email, code, s.ttl); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "failed to store code", err)
	}
	if err := s.sender.Send(ctx, email, code); err != nil {
		return dErrors.Wrap(dErrors.CodeUnavailable, "failed to deliver code", err)
	}

	s.audit.Emit(ctx, audit.Event{
		Type:    audit.EventOTPIssued,
		Actor:   email,
		Subject: email,
	})
	return nil
}

// Verify consumes the pending code for email and mints an access token.
// Codes are single use: a correct guess deletes the record, a wrong one
// leaves it for retry until the TTL fires.
func (s *Service) Verify(ctx context.Context, email, code string) (string, userregistry.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	stored, err := s.store.Find(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
		return "", userregistry.User{}, dErrors.New(dErrors.CodeUnauthorized, "code expired or not issued")
	}
	if err != nil {
		return "", userregistry.User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to load code", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", userregistry.User{}, dErrors.New(dErrors.CodeUnauthorized, "incorrect code")
	}

	if err := s.store.Delete(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "failed to delete consumed code", "email", email, "error", err.Error())
	}

	user, err := s.users.EnsureUser(ctx, email)
	if err != nil {
		return "", userregistry.User{}, err
	}
	token, err := s.tokens.GenerateAccessToken(user.Address, user.Email, tokenExpiry)
	if err != nil {
		return "", userregistry.User{}, dErrors.Wrap(dErrors.CodeInternal, "failed to mint token", err)
	}
	return token, user, nil
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

// LogSender writes codes to the log instead of sending mail. Demo mode
// has no mail provider.
type LogSender struct {
	Logger *slog.Logger
}

func (l LogSender) Send(ctx context.Context, email, code string) error {
	l.Logger.InfoContext(ctx, "otp issued", "email", email, "code", code)
	return nil
}
