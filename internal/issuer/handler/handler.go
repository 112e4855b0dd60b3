package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicledger/internal/issuer"
	"civicledger/internal/platform/middleware"
	"civicledger/internal/transport/http/shared"
	dErrors "civicledger/pkg/domainerrors"
)

// Service defines the interface for issuer directory operations.
type Service interface {
	List(ctx context.Context) ([]issuer.Info, error)
	Register(ctx context.Context, address, name string, documentTypes []string) (issuer.Info, error)
}

// Handler handles the issuer directory endpoints. Listing is public so
// requesters can pick an issuer before logging in.
type Handler struct {
	logger  *slog.Logger
	issuers Service
}

func New(issuers Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		issuers: issuers,
	}
}

// Register registers the issuer routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/issuers", h.handleList)
	r.Post("/issuers/register", h.handleRegister)
}

type issuerView struct {
	Address       string   `json:"address"`
	PubKeyHash    string   `json:"pubKeyHash"`
	Name          string   `json:"name"`
	DocumentTypes []string `json:"documentTypes"`
}

type registerBody struct {
	Address       string   `json:"address"`
	Name          string   `json:"name"`
	DocumentTypes []string `json:"documentTypes"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	infos, err := h.issuers.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list issuers",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	views := make([]issuerView, 0, len(infos))
	for _, info := range infos {
		views = append(views, toView(info))
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"issuers": views})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	info, err := h.issuers.Register(ctx, body.Address, body.Name, body.DocumentTypes)
	if err != nil {
		h.logger.WarnContext(ctx, "issuer registration failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, toView(info))
}

func toView(info issuer.Info) issuerView {
	return issuerView{
		Address:       info.Address,
		PubKeyHash:    info.PubKeyHash,
		Name:          info.Name,
		DocumentTypes: info.DocumentTypes,
	}
}
