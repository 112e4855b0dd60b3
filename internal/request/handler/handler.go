package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicledger/internal/document"
	"civicledger/internal/platform/middleware"
	"civicledger/internal/request"
	"civicledger/internal/request/service"
	"civicledger/internal/transport/http/shared"
	dErrors "civicledger/pkg/domainerrors"
)

// Service defines the interface for request lifecycle operations.
type Service interface {
	Create(ctx context.Context, p service.CreateParams) (string, error)
	Get(ctx context.Context, id string) (request.DocumentRequest, error)
	ListPendingForIssuer(ctx context.Context, issuerKey string) ([]request.DocumentRequest, error)
	ListApprovedForOwner(ctx context.Context, ownerAddress string) ([]request.DocumentRequest, error)
	Approve(ctx context.Context, id, issuerAddress, signature string, content document.Payload) error
	Reject(ctx context.Context, id, issuerAddress, signature string) error
}

// Handler handles request lifecycle endpoints.
type Handler struct {
	logger       *slog.Logger
	requests     Service
	jwtValidator middleware.JWTValidator
}

// New creates a new request Handler.
func New(requests Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		requests:     requests,
		jwtValidator: jwtValidator,
	}
}

// Register registers the request routes with the chi router. Owner-facing
// routes are JWT-guarded; issuer actions carry per-action signatures and
// status polling stays open so approval can be observed from any device.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/requests", h.handleCreate)
		r.Get("/requests/approved", h.handleListApproved)
	})
	r.Get("/requests/pending", h.handleListPending)
	r.Get("/requests/{id}", h.handleStatus)
	r.Post("/requests/{id}/approve", h.handleApprove)
	r.Post("/requests/{id}/reject", h.handleReject)
}

type createRequestBody struct {
	IssuerKey    string            `json:"issuerKey"`
	DocumentType string            `json:"documentType"`
	Fields       map[string]string `json:"fields"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body createRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	id, err := h.requests.Create(ctx, service.CreateParams{
		RequesterID:      middleware.GetEmail(ctx),
		RequesterAddress: middleware.GetAddress(ctx),
		IssuerKey:        body.IssuerKey,
		DocumentType:     body.DocumentType,
		Fields:           body.Fields,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "failed to create request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, map[string]string{"requestId": id})
}

type statusResponse struct {
	Status       request.Status    `json:"status"`
	DocumentType string            `json:"documentType"`
	Content      *document.Payload `json:"content,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	req, err := h.requests.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := statusResponse{Status: req.Status, DocumentType: req.DocumentType}
	// content and fields are revealed only once approved
	if req.Status == request.StatusApproved {
		resp.Content = req.Content
		resp.Fields = req.SubmittedFields
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

type requestSummary struct {
	ID               string            `json:"id"`
	RequesterAddress string            `json:"requesterAddress"`
	DocumentType     string            `json:"documentType"`
	SubmittedFields  map[string]string `json:"submittedFields"`
	CreatedAt        int64             `json:"createdAt"`
}

func (h *Handler) handleListPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.requests.ListPendingForIssuer(r.Context(), r.URL.Query().Get("issuerKey"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	summaries := make([]requestSummary, 0, len(reqs))
	for _, req := range reqs {
		summaries = append(summaries, requestSummary{
			ID:               req.ID,
			RequesterAddress: req.RequesterAddress,
			DocumentType:     req.DocumentType,
			SubmittedFields:  req.SubmittedFields,
			CreatedAt:        req.CreatedAt.Unix(),
		})
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requests": summaries})
}

func (h *Handler) handleListApproved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqs, err := h.requests.ListApprovedForOwner(ctx, middleware.GetAddress(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}

type issuerActionBody struct {
	IssuerAddress string            `json:"issuerAddress"`
	Signature     string            `json:"signature"`
	Content       *document.Payload `json:"content,omitempty"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body issuerActionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if body.IssuerAddress == "" || body.Signature == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "issuer signature required"))
		return
	}

	var content document.Payload
	if body.Content != nil {
		content = *body.Content
	}
	if err := h.requests.Approve(ctx, id, body.IssuerAddress, body.Signature, content); err != nil {
		h.logger.WarnContext(ctx, "approve failed",
			"request_id", middleware.GetRequestID(ctx),
			"document_request", id,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body issuerActionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if body.IssuerAddress == "" || body.Signature == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "issuer signature required"))
		return
	}

	if err := h.requests.Reject(ctx, id, body.IssuerAddress, body.Signature); err != nil {
		h.logger.WarnContext(ctx, "reject failed",
			"request_id", middleware.GetRequestID(ctx),
			"document_request", id,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
