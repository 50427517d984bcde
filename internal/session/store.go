package session

import (
	"context"
	"errors"
	"time"

	"eshop-order/internal/model"
)

// DefaultTTL is the lifetime of a checkout session. Expiry is the only
// cancellation mechanism; abandoned checkouts are garbage-collected by
// the store.
const DefaultTTL = 10 * time.Minute

// ErrNotFound is returned when a session is absent or expired.
var ErrNotFound = errors.New("session not found")

// Store is a key-value cache of ephemeral checkout sessions with TTL.
type Store interface {
	// Get retrieves a session by id. Returns ErrNotFound on miss or expiry.
	Get(ctx context.Context, sessionID string) (*model.CheckoutSession, error)

	// Set writes a session under the given id with the given TTL.
	Set(ctx context.Context, sessionID string, session *model.CheckoutSession, ttl time.Duration) error

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// GetDelete atomically retrieves and removes a session. It is the
	// single-use claim used by fulfillment: under concurrent redeliveries
	// of the same payment event, exactly one caller observes the session.
	GetDelete(ctx context.Context, sessionID string) (*model.CheckoutSession, error)

	// ListByUser returns all live sessions belonging to a user, keyed by
	// session id.
	ListByUser(ctx context.Context, userID string) (map[string]*model.CheckoutSession, error)
}
