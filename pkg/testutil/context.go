package testutil

import (
	"context"
	"net/http"

	"civicledger/internal/platform/middleware"
)

// WithAddress adds an authenticated address to the request context,
// simulating what the auth middleware does for a valid token.
func WithAddress(req *http.Request, address string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyAddress, address)
	return req.WithContext(ctx)
}

// WithAuth adds both address and email to the request context. This is
// the typical state for an authenticated request.
func WithAuth(req *http.Request, address, email string) *http.Request {
	ctx := req.Context()
	if address != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyAddress, address)
	}
	if email != "" {
		ctx = context.WithValue(ctx, middleware.ContextKeyEmail, email)
	}
	return req.WithContext(ctx)
}
