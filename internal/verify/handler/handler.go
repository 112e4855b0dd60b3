package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"civicledger/internal/platform/middleware"
	"civicledger/internal/transport/http/shared"
	"civicledger/internal/verify"
)

// Service defines the interface for verification operations.
type Service interface {
	Verify(ctx context.Context, shortID string, p verify.Params) (verify.Result, error)
}

// Handler handles the public verification endpoint. Verification is
// the one surface a third party hits, so it requires no token.
type Handler struct {
	logger   *slog.Logger
	verifier Service
}

func New(verifier Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:   logger,
		verifier: verifier,
	}
}

// Register registers the verify routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/verify/{shortId}", h.handleVerify)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	params := verify.Params{
		DocTypes:          splitDocTypes(query.Get("docTypes")),
		RequireAge18:      query.Get("age18") == "true",
		RequireNotExpired: query.Get("notExpired") == "true",
	}

	result, err := h.verifier.Verify(ctx, chi.URLParam(r, "shortId"), params)
	if err != nil {
		h.logger.InfoContext(ctx, "verification did not complete",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}

func splitDocTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
