package repository

import (
	"context"
	"fmt"

	"eshop-order/internal/model"

	"github.com/rs/zerolog"
)

// notificationRepository implements the NotificationRepository interface using PostgreSQL.
type notificationRepository struct {
	db     DB
	logger zerolog.Logger
}

// NewNotificationRepository creates a new PostgreSQL-backed notification repository.
func NewNotificationRepository(db DB, logger zerolog.Logger) NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger.With().Str("repository", "notification").Logger(),
	}
}

// Create inserts a notification record.
func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (id, title, message, creator_id, receiver_id, redirect_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		notification.ID,
		notification.Title,
		notification.Message,
		notification.CreatorID,
		notification.ReceiverID,
		notification.RedirectLink,
		notification.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("receiver_id", notification.ReceiverID).
			Msg("failed to create notification")
		return fmt.Errorf("failed to create notification: %w", err)
	}

	r.logger.Debug().
		Str("receiver_id", notification.ReceiverID).
		Msg("notification created")

	return nil
}
