// Package payment wraps the external payment processor: creating payment
// intents for checkout sessions, verifying webhook signatures, and moving
// funds to seller payout accounts.
package payment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// IntentRequest describes a charge to be created on the processor. Amounts
// are in minor currency units.
type IntentRequest struct {
	AmountMinor int64
	Currency    string
	SessionID   string
	UserID      string
}

// TransferRequest moves part of a captured charge to a seller's payout
// account, grouped with the originating session.
type TransferRequest struct {
	AmountMinor int64
	Currency    string
	Destination string
	SessionID   string
}

// Gateway is the processor-facing surface used by the intent adapter and the
// fulfillment engine. The production implementation talks to Stripe; tests
// substitute a mock.
type Gateway interface {
	// CreateIntent creates a payment intent and returns its client secret.
	CreateIntent(ctx context.Context, req IntentRequest) (string, error)

	// Transfer sends funds to a seller's connected account.
	Transfer(ctx context.Context, req TransferRequest) error
}

// stripeGateway implements Gateway against the Stripe API.
type stripeGateway struct {
	api    *client.API
	logger zerolog.Logger
}

// NewStripeGateway creates a Stripe-backed gateway.
func NewStripeGateway(secretKey string, logger zerolog.Logger) Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{
		api:    api,
		logger: logger.With().Str("component", "stripe-gateway").Logger(),
	}
}

// CreateIntent creates a card payment intent carrying the session correlation
// metadata. The idempotency key is derived from the session id so client
// retries of the same checkout do not mint duplicate intents.
func (g *stripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountMinor),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		TransferGroup:      stripe.String(req.SessionID),
	}
	params.Context = ctx
	params.SetIdempotencyKey("payment-intent-" + req.SessionID)
	params.AddMetadata("sessionId", req.SessionID)
	params.AddMetadata("userId", req.UserID)

	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Error().
			Err(err).
			Str("session_id", req.SessionID).
			Int64("amount_minor", req.AmountMinor).
			Msg("failed to create payment intent")
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	g.logger.Info().
		Str("session_id", req.SessionID).
		Int64("amount_minor", req.AmountMinor).
		Msg("payment intent created")

	return intent.ClientSecret, nil
}

// Transfer moves a seller's share of a captured charge to their connected
// account, grouped by the session id.
func (g *stripeGateway) Transfer(ctx context.Context, req TransferRequest) error {
	params := &stripe.TransferParams{
		Amount:        stripe.Int64(req.AmountMinor),
		Currency:      stripe.String(req.Currency),
		Destination:   stripe.String(req.Destination),
		TransferGroup: stripe.String(req.SessionID),
	}
	params.Context = ctx
	params.SetIdempotencyKey("transfer-" + req.SessionID + "-" + req.Destination)

	if _, err := g.api.Transfers.New(params); err != nil {
		g.logger.Error().
			Err(err).
			Str("session_id", req.SessionID).
			Str("destination", req.Destination).
			Msg("failed to create transfer")
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	return nil
}
