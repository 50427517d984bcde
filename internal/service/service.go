package service

import (
	"context"
)

// FulfillmentService turns verified payment confirmations into durable
// orders and their side effects.
type FulfillmentService interface {
	// ProcessPaymentSucceeded consumes the checkout session named by a
	// verified payment event and creates one order per shop group. It is
	// safe under webhook redelivery: a session that is already gone makes
	// the call a no-op. The returned error covers order persistence
	// failures only; best-effort side effects are logged and swallowed.
	ProcessPaymentSucceeded(ctx context.Context, sessionID, userID string) error
}
