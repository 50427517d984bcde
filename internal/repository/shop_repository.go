package repository

import (
	"context"
	"fmt"

	"eshop-order/internal/model"

	"github.com/rs/zerolog"
)

// shopRepository implements the ShopRepository interface using PostgreSQL.
type shopRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewShopRepository creates a new PostgreSQL-backed shop repository.
func NewShopRepository(db DB, logger zerolog.Logger) ShopRepository {
	return &shopRepository{
		db:     db,
		logger: logger.With().Str("repository", "shop").Logger(),
	}
}

// GetByIDs retrieves shops together with their sellers' payout accounts.
func (r *shopRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Shop, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT s.id, s.seller_id, s.name, sel.stripe_id
		FROM shops s
		LEFT JOIN sellers sel ON sel.id = s.seller_id
		WHERE s.id = ANY($1)
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("id_count", len(ids)).Msg("failed to query shops")
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	var shops []model.Shop
	for rows.Next() {
		var shop model.Shop
		if err := rows.Scan(&shop.ID, &shop.SellerID, &shop.Name, &shop.StripeAccountID); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan shop row")
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating shop rows")
		return nil, fmt.Errorf("error iterating shops: %w", err)
	}

	return shops, nil
}
