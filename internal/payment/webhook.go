package payment

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"eshop-order/internal/model"
)

// EventPaymentSucceeded is the only processor event type the order service
// acts on.
const EventPaymentSucceeded = "payment_intent.succeeded"

// WebhookVerifier authenticates raw webhook deliveries against the shared
// signing secret before any payload content is parsed.
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier for the given signing secret.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify checks the signature header against the raw payload and returns the
// parsed event. A mismatch yields model.ErrInvalidSignature; forged requests
// are rejected before their content is interpreted.
func (v *WebhookVerifier) Verify(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, v.secret)
	if err != nil {
		return stripe.Event{}, model.ErrInvalidSignature
	}
	return event, nil
}

// SessionMetadata extracts the session correlation written at intent-creation
// time from a payment event.
func SessionMetadata(event stripe.Event) (sessionID, userID string, err error) {
	var intent struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return "", "", fmt.Errorf("failed to parse event payload: %w", err)
	}

	sessionID = intent.Metadata["sessionId"]
	userID = intent.Metadata["userId"]
	if sessionID == "" {
		return "", "", fmt.Errorf("event %s carries no session metadata", event.ID)
	}

	return sessionID, userID, nil
}
