package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"eshop-order/internal/middleware"
	"eshop-order/internal/model"
	"eshop-order/internal/payment"
	"eshop-order/internal/session"
)

// PaymentHandler handles checkout-session and payment-intent requests.
type PaymentHandler struct {
	sessions *session.Manager
	intents  *payment.IntentAdapter
	logger   zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(sessions *session.Manager, intents *payment.IntentAdapter, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		sessions: sessions,
		intents:  intents,
		logger:   logger.With().Str("handler", "payment").Logger(),
	}
}

// CreateSession handles POST /order/api/create-payment-session requests.
func (h *PaymentHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity", h.logger)
		return
	}

	var req model.PaymentSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sessionID, err := h.sessions.CreateOrReuse(r.Context(), userID, &req)
	if err != nil {
		var domainErr *model.DomainError
		if errors.As(err, &domainErr) {
			writeError(w, http.StatusBadRequest, domainErr.Message, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create payment session", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, model.PaymentSessionResponse{SessionID: sessionID})
}

// VerifySession handles GET /order/api/verifying-payment-session requests.
func (h *PaymentHandler) VerifySession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrMissingSessionID.Message, h.logger)
		return
	}

	sess, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, model.ErrSessionNotFound.Message, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to verify payment session", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.VerifySessionResponse{Success: true, Session: sess})
}

// CreateIntent handles POST /order/api/create-payment-intent requests.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.PaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrMissingSessionID.Message, h.logger)
		return
	}

	clientSecret, err := h.intents.CreateIntent(r.Context(), req.SessionID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, model.ErrSessionNotFound.Message, h.logger)
			return
		}
		writeError(w, http.StatusBadGateway, "failed to create payment intent", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PaymentIntentResponse{ClientSecret: clientSecret})
}
