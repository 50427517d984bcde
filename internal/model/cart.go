package model

// CartLine represents a single line of a client-submitted cart.
// The JSON tags are the canonical wire names used by the storefront
// and by cart normalization; a line is immutable once it has been
// captured into a checkout session.
type CartLine struct {
	ProductID       string            `json:"id"`
	Quantity        int               `json:"quantity"`
	SalePrice       float64           `json:"sale_price"`
	ShopID          string            `json:"shopId"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// Coupon describes a discount applied to at most one product in a cart.
// When DiscountPercent is greater than zero the coupon is percentage
// based, otherwise DiscountAmount is a flat discount.
type Coupon struct {
	Code                string  `json:"code"`
	DiscountedProductID string  `json:"discountedProductId"`
	DiscountPercent     float64 `json:"discountPercent"`
	DiscountAmount      float64 `json:"discountAmount"`
}
