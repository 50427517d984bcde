package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop-order/internal/model"
)

func setupNotificationRepo(t *testing.T) (NotificationRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewNotificationRepository(mock, zerolog.Nop()), mock
}

func TestNotificationRepository_Create(t *testing.T) {
	repo, mock := setupNotificationRepo(t)

	n := &model.Notification{
		ID:           uuid.New(),
		Title:        "New order received",
		Message:      "A customer just ordered P001 from your shop.",
		CreatorID:    "user-1",
		ReceiverID:   "seller-1",
		RedirectLink: "https://eshop.test/order/sess-1",
		CreatedAt:    time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(n.ID, n.Title, n.Message, n.CreatorID, n.ReceiverID, n.RedirectLink, n.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), n))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Create_Error(t *testing.T) {
	repo, mock := setupNotificationRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("insert failed"))

	err := repo.Create(context.Background(), &model.Notification{ID: uuid.New()})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
