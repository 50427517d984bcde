package payment

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"eshop-order/internal/model"
)

// DefaultCurrency is the charge currency for all checkout sessions.
const DefaultCurrency = "usd"

// SessionReader resolves a checkout session by id.
type SessionReader interface {
	Get(ctx context.Context, sessionID string) (*model.CheckoutSession, error)
}

// IntentAdapter translates a checkout session into a processor charge
// request. It writes no local state; the processor's webhook drives all
// durable effects.
type IntentAdapter struct {
	sessions SessionReader
	gateway  Gateway
	logger   zerolog.Logger
}

// NewIntentAdapter creates a new payment intent adapter.
func NewIntentAdapter(sessions SessionReader, gateway Gateway, logger zerolog.Logger) *IntentAdapter {
	return &IntentAdapter{
		sessions: sessions,
		gateway:  gateway,
		logger:   logger.With().Str("component", "intent-adapter").Logger(),
	}
}

// CreateIntent loads the session, recomputes the chargeable amount from it
// and creates the processor charge. Returns model.ErrSessionNotFound when
// the session is missing or expired.
func (a *IntentAdapter) CreateIntent(ctx context.Context, sessionID string) (string, error) {
	sess, err := a.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	amount := sess.TotalAmount
	if sess.Coupon != nil {
		amount -= sess.Coupon.DiscountAmount
	}
	if amount < 0 {
		amount = 0
	}

	secret, err := a.gateway.CreateIntent(ctx, IntentRequest{
		AmountMinor: MinorUnits(amount),
		Currency:    DefaultCurrency,
		SessionID:   sessionID,
		UserID:      sess.UserID,
	})
	if err != nil {
		return "", err
	}

	a.logger.Info().
		Str("session_id", sessionID).
		Float64("amount", amount).
		Msg("payment intent issued for session")

	return secret, nil
}

// MinorUnits converts a decimal amount to minor currency units.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
