package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db DB, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// RecordPurchase applies the stock decrement and total-sales increment in a
// single UPDATE so concurrent purchases of the same product cannot lose
// updates.
func (r *productRepository) RecordPurchase(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, total_sales = total_sales + $2
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("failed to record purchase")
		return fmt.Errorf("failed to record purchase: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", productID)
	}

	r.logger.Debug().
		Str("product_id", productID).
		Int("quantity", quantity).
		Msg("purchase recorded")

	return nil
}
