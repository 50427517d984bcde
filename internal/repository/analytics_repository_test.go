package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop-order/internal/model"
)

func setupAnalyticsRepo(t *testing.T) (AnalyticsRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewAnalyticsRepository(mock, zerolog.Nop()), mock
}

func TestAnalyticsRepository_RecordPurchase(t *testing.T) {
	repo, mock := setupAnalyticsRepo(t)

	action := model.PurchaseAction{
		ProductID: "P001",
		ShopID:    "S1",
		Action:    "purchase",
		Timestamp: time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(action)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_analytics`)).
		WithArgs("user-1", payload).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.RecordPurchase(context.Background(), "user-1", action))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepository_RecordPurchase_Error(t *testing.T) {
	repo, mock := setupAnalyticsRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_analytics`)).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("write failed"))

	err := repo.RecordPurchase(context.Background(), "user-1", model.PurchaseAction{ProductID: "P001"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
