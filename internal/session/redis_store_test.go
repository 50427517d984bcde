package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop-order/internal/model"
)

// setupTestStore creates a miniredis server and returns a Store backed by it.
func setupTestStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, zerolog.Nop()), mr
}

func testSession(userID string) *model.CheckoutSession {
	return &model.CheckoutSession{
		UserID: userID,
		Cart: []model.CartLine{
			{ProductID: "P001", Quantity: 2, SalePrice: 10.00, ShopID: "S1"},
		},
		Sellers: []model.SessionSeller{
			{ShopID: "S1", SellerID: "seller-1", StripeAccountID: "acct_1"},
		},
		TotalAmount: 20.00,
	}
}

func TestRedisStore_SetAndGet(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sess := testSession("user-1")
	require.NoError(t, store.Set(ctx, "sess-1", sess, DefaultTTL))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_GetExpired(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", testSession("user-1"), DefaultTTL))

	mr.FastForward(DefaultTTL + time.Second)

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", testSession("user-1"), DefaultTTL))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent session is not an error.
	assert.NoError(t, store.Delete(ctx, "sess-1"))
}

func TestRedisStore_GetDelete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	sess := testSession("user-1")
	require.NoError(t, store.Set(ctx, "sess-1", sess, DefaultTTL))

	// First claim wins.
	got, err := store.GetDelete(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	// Second claim observes nothing.
	_, err = store.GetDelete(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ListByUser(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess-1", testSession("user-1"), DefaultTTL))
	require.NoError(t, store.Set(ctx, "sess-2", testSession("user-2"), DefaultTTL))
	require.NoError(t, store.Set(ctx, "sess-3", testSession("user-1"), DefaultTTL))

	sessions, err := store.ListByUser(ctx, "user-1")
	require.NoError(t, err)

	assert.Len(t, sessions, 2)
	assert.Contains(t, sessions, "sess-1")
	assert.Contains(t, sessions, "sess-3")
}

func TestRedisStore_ListByUser_Empty(t *testing.T) {
	store, _ := setupTestStore(t)

	sessions, err := store.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
