package handler

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"eshop-order/internal/payment"
	"eshop-order/internal/service"
)

// maxWebhookBody caps the raw payload read from the processor.
const maxWebhookBody = 1 << 16

// webhookAck is the body returned to the processor for every delivery that
// passed signature verification.
type webhookAck struct {
	Received bool `json:"received"`
}

// WebhookHandler handles asynchronous payment confirmations from the
// processor.
type WebhookHandler struct {
	verifier    *payment.WebhookVerifier
	fulfillment service.FulfillmentService
	logger      zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(verifier *payment.WebhookVerifier, fulfillment service.FulfillmentService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		verifier:    verifier,
		fulfillment: fulfillment,
		logger:      logger.With().Str("handler", "webhook").Logger(),
	}
}

// HandlePaymentEvent handles POST /order/api/create-order deliveries.
//
// Once the signature has been verified the response is always 200: the
// charge already succeeded, and a non-2xx answer would make the processor
// retry an event whose orders may already exist.
func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if sigHeader == "" {
		writeError(w, http.StatusBadRequest, "missing Stripe signature", h.logger)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", h.logger)
		return
	}

	// Signature verification precedes any parsing of the payload; forged
	// events are rejected before their content is interpreted.
	event, err := h.verifier.Verify(body, sigHeader)
	if err != nil {
		writeError(w, http.StatusBadRequest, "webhook signature verification failed", h.logger)
		return
	}

	if string(event.Type) != payment.EventPaymentSucceeded {
		h.logger.Debug().Str("event_type", string(event.Type)).Msg("ignoring event type")
		writeJSON(w, http.StatusOK, webhookAck{Received: true})
		return
	}

	sessionID, userID, err := payment.SessionMetadata(event)
	if err != nil {
		// Acknowledge anyway: retrying cannot fix an event without
		// session correlation.
		h.logger.Warn().Err(err).Str("event_id", event.ID).Msg("event missing session metadata")
		writeJSON(w, http.StatusOK, webhookAck{Received: true})
		return
	}

	if err := h.fulfillment.ProcessPaymentSucceeded(r.Context(), sessionID, userID); err != nil {
		// The charge succeeded; surface the failure to the operator via
		// logs while still acking to stop processor retries.
		h.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("fulfillment failed after captured payment")
	}

	writeJSON(w, http.StatusOK, webhookAck{Received: true})
}
