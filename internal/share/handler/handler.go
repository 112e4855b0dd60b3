package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicledger/internal/platform/config"
	"civicledger/internal/platform/middleware"
	"civicledger/internal/share"
	"civicledger/internal/transport/http/shared"
	dErrors "civicledger/pkg/domainerrors"
)

// Service defines the interface for share session operations.
type Service interface {
	Create(ctx context.Context, ownerAddress string, docTypes []string, metadata map[string]map[string]string) (share.Session, error)
}

// Handler handles share session endpoints.
type Handler struct {
	logger       *slog.Logger
	shares       Service
	jwtValidator middleware.JWTValidator
}

func New(shares Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		shares:       shares,
		jwtValidator: jwtValidator,
	}
}

// Register registers the share routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/shares", h.handleCreate)
	})
}

type createShareBody struct {
	DocTypes []string                     `json:"docTypes"`
	Metadata map[string]map[string]string `json:"metadata"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createShareBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	session, err := h.shares.Create(ctx, middleware.GetAddress(ctx), body.DocTypes, body.Metadata)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create share session",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, map[string]any{
		"shortId":   session.ShortID,
		"expiresIn": int(config.ShareSessionTTL.Seconds()),
	})
}
