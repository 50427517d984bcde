package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the states an order can be in. Orders are only
// created once payment is confirmed, so they start at OrderStatusPaid.
type OrderStatus string

const (
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// Order represents a durable customer order for a single shop. A multi-seller
// checkout produces one Order per shop; the orders share no foreign key, only
// the session id embedded in notification links.
type Order struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	UserID            string      `json:"userId" db:"user_id"`
	ShopID            string      `json:"shopId" db:"shop_id"`
	Total             float64     `json:"total" db:"total"`
	Status            OrderStatus `json:"status" db:"status"`
	ShippingAddressID *string     `json:"shippingAddressId,omitempty" db:"shipping_address_id"`
	CouponCode        *string     `json:"couponCode,omitempty" db:"coupon_code"`
	DiscountAmount    float64     `json:"discountAmount" db:"discount_amount"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order, created atomically with it.
type OrderItem struct {
	ID              uuid.UUID         `json:"-" db:"id"`
	OrderID         uuid.UUID         `json:"-" db:"order_id"`
	ProductID       string            `json:"productId" db:"product_id"`
	Quantity        int               `json:"quantity" db:"quantity"`
	Price           float64           `json:"price" db:"price"`
	SelectedOptions map[string]string `json:"selectedOptions" db:"selected_options"`
}

// OrderResponse represents the response payload for an order lookup.
type OrderResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
