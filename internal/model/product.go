package model

import "time"

// Product represents a catalogue product as seen by the order service.
// Catalogue CRUD lives in the product service; this service only reads
// product rows and applies atomic stock/sales counters on purchase.
type Product struct {
	ID         string    `json:"id" db:"id"`
	ShopID     string    `json:"shopId" db:"shop_id"`
	Title      string    `json:"title" db:"title"`
	SalePrice  float64   `json:"sale_price" db:"sale_price"`
	Stock      int       `json:"stock" db:"stock"`
	TotalSales int       `json:"totalSales" db:"total_sales"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Shop represents a seller's shop, resolved when a session is created to
// capture payout routing. StripeAccountID is nil for sellers that have not
// connected a payout account yet.
type Shop struct {
	ID              string  `json:"id" db:"id"`
	SellerID        string  `json:"sellerId" db:"seller_id"`
	Name            string  `json:"name" db:"name"`
	StripeAccountID *string `json:"stripeAccountId" db:"stripe_account_id"`
}

// User is the purchasing customer, looked up for confirmation email delivery.
type User struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}
