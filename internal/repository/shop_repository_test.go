package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupShopRepo(t *testing.T) (ShopRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewShopRepository(mock, zerolog.Nop()), mock
}

func TestShopRepository_GetByIDs(t *testing.T) {
	repo, mock := setupShopRepo(t)

	acct := "acct_1"
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT s.id, s.seller_id, s.name, sel.stripe_id`)).
		WithArgs([]string{"S1", "S2"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "seller_id", "name", "stripe_id"}).
			AddRow("S1", "seller-1", "Shop One", &acct).
			AddRow("S2", "seller-2", "Shop Two", nil))

	shops, err := repo.GetByIDs(context.Background(), []string{"S1", "S2"})
	require.NoError(t, err)
	require.Len(t, shops, 2)

	require.NotNil(t, shops[0].StripeAccountID)
	assert.Equal(t, "acct_1", *shops[0].StripeAccountID)

	// Sellers without a connected payout account come back as NULL.
	assert.Nil(t, shops[1].StripeAccountID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShopRepository_GetByIDs_Empty(t *testing.T) {
	repo, mock := setupShopRepo(t)

	shops, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, shops)
	assert.NoError(t, mock.ExpectationsWereMet())
}
