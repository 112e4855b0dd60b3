package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	Address string
	Email   string
}

// Context keys for storing authenticated user information
type contextKeyAddress struct{}
type contextKeyEmail struct{}

var (
	ContextKeyAddress = contextKeyAddress{}
	ContextKeyEmail   = contextKeyEmail{}
)

// GetAddress retrieves the authenticated owner address from the context.
func GetAddress(ctx context.Context) string {
	addr, ok := ctx.Value(ContextKeyAddress).(string)
	if !ok {
		return ""
	}
	return addr
}

// GetEmail retrieves the authenticated email from the context.
func GetEmail(ctx context.Context) string {
	email, ok := ctx.Value(ContextKeyEmail).(string)
	if !ok {
		return ""
	}
	return email
}

// RequireAuth guards owner-facing routes with a bearer token. Issuer actions
// are not routed through this; they carry per-action signatures instead.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if after, ok := strings.CutPrefix(authHeader, bearerPrefix); ok {
				claims, err := validator.ValidateToken(after)
				if err != nil {
					ctx := r.Context()
					logger.WarnContext(ctx, "unauthorized access - invalid token",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
					return
				}

				ctx := r.Context()
				ctx = context.WithValue(ctx, ContextKeyAddress, claims.Address)
				ctx = context.WithValue(ctx, ContextKeyEmail, claims.Email)

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// No Authorization header or invalid format
			ctx := r.Context()
			logger.WarnContext(ctx, "unauthorized access - missing token",
				"request_id", GetRequestID(ctx),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`))
		})
	}
}
