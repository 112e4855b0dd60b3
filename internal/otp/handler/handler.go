package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"civicledger/internal/platform/middleware"
	"civicledger/internal/transport/http/shared"
	"civicledger/internal/userregistry"
	dErrors "civicledger/pkg/domainerrors"
)

// Service defines the interface for OTP login operations.
type Service interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) (string, userregistry.User, error)
}

// Handler handles the OTP login endpoints. These are the only
// credential-minting routes, so they sit outside the JWT group.
type Handler struct {
	logger *slog.Logger
	otp    Service
}

func New(otp Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		otp:    otp,
	}
}

// Register registers the OTP routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/otp/send", h.handleSend)
	r.Post("/otp/verify", h.handleVerify)
}

type sendBody struct {
	Email string `json:"email"`
}

type verifyBody struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body sendBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.otp.Send(ctx, body.Email); err != nil {
		h.logger.WarnContext(ctx, "failed to send login code",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusAccepted, map[string]any{"status": "sent"})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body verifyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	token, user, err := h.otp.Verify(ctx, body.Email, body.Code)
	if err != nil {
		h.logger.InfoContext(ctx, "login code verification failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"address": user.Address,
		"email":   user.Email,
	})
}
