package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"eshop-order/internal/cart"
	"eshop-order/internal/model"
	"eshop-order/internal/repository"
)

// Manager creates and resolves checkout sessions. Session creation is
// idempotent under client retries: an identical cart for the same user
// reuses the in-flight session instead of minting a new one.
type Manager struct {
	store  Store
	shops  repository.ShopRepository
	logger zerolog.Logger
}

// NewManager creates a new session manager.
func NewManager(store Store, shops repository.ShopRepository, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		shops:  shops,
		logger: logger.With().Str("component", "session-manager").Logger(),
	}
}

// CreateOrReuse validates the requested cart and returns a session id for it.
// An existing session of the same user with an identical normalized cart is
// reused; a session with a differing cart is considered superseded and
// deleted before a fresh session is written.
func (m *Manager) CreateOrReuse(ctx context.Context, userID string, req *model.PaymentSessionRequest) (string, error) {
	if err := validateCart(req.Cart); err != nil {
		return "", err
	}

	normalized, err := cart.Normalize(req.Cart)
	if err != nil {
		return "", err
	}

	existing, err := m.store.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to scan live sessions: %w", err)
	}

	for sessionID, sess := range existing {
		storedNormalized, err := cart.Normalize(sess.Cart)
		if err != nil {
			m.logger.Warn().Err(err).Str("session_id", sessionID).Msg("skipping unnormalizable stored cart")
			continue
		}
		if storedNormalized == normalized {
			m.logger.Debug().
				Str("session_id", sessionID).
				Str("user_id", userID).
				Msg("reusing existing checkout session")
			return sessionID, nil
		}
		// Same user, different cart: the old session is abandoned.
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return "", fmt.Errorf("failed to delete superseded session: %w", err)
		}
		m.logger.Debug().
			Str("session_id", sessionID).
			Str("user_id", userID).
			Msg("deleted superseded checkout session")
	}

	sellers, err := m.resolveSellers(ctx, req.Cart)
	if err != nil {
		return "", err
	}

	sessionID := uuid.NewString()
	sess := &model.CheckoutSession{
		UserID:            userID,
		Cart:              req.Cart,
		Sellers:           sellers,
		TotalAmount:       cart.Total(req.Cart),
		ShippingAddressID: req.SelectedAddressID,
		Coupon:            req.Coupon,
	}

	if err := m.store.Set(ctx, sessionID, sess, DefaultTTL); err != nil {
		return "", fmt.Errorf("failed to write session: %w", err)
	}

	m.logger.Info().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Int("line_count", len(req.Cart)).
		Float64("total_amount", sess.TotalAmount).
		Msg("checkout session created")

	return sessionID, nil
}

// Get retrieves a session by id, mapping store misses to ErrSessionNotFound.
func (m *Manager) Get(ctx context.Context, sessionID string) (*model.CheckoutSession, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return sess, nil
}

// resolveSellers maps each distinct shop in the cart to its payout account.
// A shop with no resolvable seller still produces an entry with an empty
// account id: session creation stays cheap and intent creation fails later.
func (m *Manager) resolveSellers(ctx context.Context, lines []model.CartLine) ([]model.SessionSeller, error) {
	var shopIDs []string
	seen := make(map[string]bool)
	for _, line := range lines {
		if !seen[line.ShopID] {
			seen[line.ShopID] = true
			shopIDs = append(shopIDs, line.ShopID)
		}
	}

	shops, err := m.shops.GetByIDs(ctx, shopIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sellers: %w", err)
	}

	byID := make(map[string]model.Shop, len(shops))
	for _, shop := range shops {
		byID[shop.ID] = shop
	}

	sellers := make([]model.SessionSeller, 0, len(shopIDs))
	for _, shopID := range shopIDs {
		seller := model.SessionSeller{ShopID: shopID}
		if shop, ok := byID[shopID]; ok {
			seller.SellerID = shop.SellerID
			if shop.StripeAccountID != nil {
				seller.StripeAccountID = *shop.StripeAccountID
			}
		} else {
			m.logger.Warn().Str("shop_id", shopID).Msg("shop not found, session created without payout account")
		}
		sellers = append(sellers, seller)
	}

	return sellers, nil
}

func validateCart(lines []model.CartLine) error {
	if len(lines) == 0 {
		return model.ErrCartEmpty
	}
	for _, line := range lines {
		if line.ProductID == "" || line.ShopID == "" {
			return model.ErrInvalidCartLine
		}
		if line.Quantity <= 0 {
			return model.ErrInvalidCartLine
		}
		if line.SalePrice < 0 {
			return model.ErrInvalidCartLine
		}
	}
	return nil
}
