package handler

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicledger/internal/document"
	"civicledger/internal/platform/middleware"
	"civicledger/internal/transport/http/shared"
	dErrors "civicledger/pkg/domainerrors"
)

// Processor runs an approved document through the recording pipeline.
type Processor interface {
	ProcessApproved(ctx context.Context, doc document.ApprovedDocument, ownerKey ed25519.PrivateKey) error
}

// KeySource unseals the signing key of the authenticated user.
type KeySource interface {
	PrivateKey(ctx context.Context, email string) (ed25519.PrivateKey, error)
}

// Handler handles document processing endpoints.
type Handler struct {
	logger       *slog.Logger
	pipeline     Processor
	keys         KeySource
	jwtValidator middleware.JWTValidator
}

func New(pipeline Processor, keys KeySource, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		pipeline:     pipeline,
		keys:         keys,
		jwtValidator: jwtValidator,
	}
}

// Register registers the document routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/documents/process", h.handleProcess)
	})
}

type processBody struct {
	RequestID     string            `json:"requestId"`
	DocumentType  string            `json:"documentType"`
	IssuerKeyHash string            `json:"issuerKeyHash"`
	Fields        map[string]string `json:"fields"`
	Content       document.Payload  `json:"content"`
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body processBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if body.DocumentType == "" || body.IssuerKeyHash == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "documentType and issuerKeyHash are required"))
		return
	}

	ownerKey, err := h.keys.PrivateKey(ctx, middleware.GetEmail(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	doc := document.ApprovedDocument{
		RequestID:     body.RequestID,
		DocumentType:  body.DocumentType,
		IssuerKeyHash: body.IssuerKeyHash,
		Fields:        body.Fields,
		Content:       body.Content,
	}
	if err := h.pipeline.ProcessApproved(ctx, doc, ownerKey); err != nil {
		h.logger.WarnContext(ctx, "document processing failed",
			"request_id", middleware.GetRequestID(ctx),
			"document_type", body.DocumentType,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	raw, err := body.Content.Bytes()
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(dErrors.CodeBadRequest, "document content is not decodable", err))
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"hash":         document.Digest(raw),
		"documentType": body.DocumentType,
		"metadata":     document.ExtractMetadata(body.DocumentType, body.Fields),
	})
}
