package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"eshop-order/internal/model"

	"github.com/rs/zerolog"
)

// analyticsRepository implements the AnalyticsRepository interface using PostgreSQL.
type analyticsRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewAnalyticsRepository creates a new PostgreSQL-backed analytics repository.
func NewAnalyticsRepository(db DB, logger zerolog.Logger) AnalyticsRepository {
	return &analyticsRepository{
		db:     db,
		logger: logger.With().Str("repository", "analytics").Logger(),
	}
}

// RecordPurchase appends a purchase action to the user's analytics record.
// The append happens server-side in jsonb so concurrent purchases do not
// overwrite each other's entries.
func (r *analyticsRepository) RecordPurchase(ctx context.Context, userID string, action model.PurchaseAction) error {
	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to marshal purchase action: %w", err)
	}

	query := `
		INSERT INTO user_analytics (user_id, last_visited, actions)
		VALUES ($1, now(), jsonb_build_array($2::jsonb))
		ON CONFLICT (user_id) DO UPDATE
		SET last_visited = now(),
		    actions = user_analytics.actions || $2::jsonb
	`

	if _, err := r.db.Exec(ctx, query, userID, payload); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("product_id", action.ProductID).
			Msg("failed to record purchase action")
		return fmt.Errorf("failed to record purchase action: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("product_id", action.ProductID).
		Msg("purchase action recorded")

	return nil
}
