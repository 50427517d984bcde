package repository

import (
	"context"

	"eshop-order/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories depend on. Narrowing to
// an interface lets tests substitute a pgxmock pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}

// ProductRepository defines the product-side effects of a purchase.
type ProductRepository interface {
	// RecordPurchase atomically decrements stock and increments the
	// total-sales counter for a product. Returns an error when the
	// product does not exist.
	RecordPurchase(ctx context.Context, productID string, quantity int) error
}

// ShopRepository resolves shops to their sellers and payout accounts.
type ShopRepository interface {
	// GetByIDs retrieves shops by their IDs. Unknown IDs are silently
	// omitted from the result.
	GetByIDs(ctx context.Context, ids []string) ([]model.Shop, error)
}

// UserRepository looks up purchasing customers.
type UserRepository interface {
	// GetByID retrieves a user by ID, returning nil when absent.
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// NotificationRepository persists fire-and-forget notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
}

// AnalyticsRepository maintains the per-user purchase action log.
type AnalyticsRepository interface {
	// RecordPurchase appends an action to the user's analytics record,
	// creating the record when absent.
	RecordPurchase(ctx context.Context, userID string, action model.PurchaseAction) error
}
