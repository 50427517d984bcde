// Package cart provides pure helpers over client-submitted carts: a
// canonical serialized form used for equality comparison, total
// computation, and grouping by shop for multi-seller order splitting.
package cart

import (
	"encoding/json"
	"fmt"
	"sort"

	"eshop-order/internal/model"
)

// normalizedLine is the canonical projection of a cart line. Only these
// fields participate in cart equality; anything else the client sends is
// dropped before comparison.
type normalizedLine struct {
	ID              string            `json:"id"`
	Quantity        int               `json:"quantity"`
	SalePrice       float64           `json:"sale_price"`
	ShopID          string            `json:"shopId"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

// Normalize produces the canonical serialized form of a cart: one entry per
// line holding only the canonical fields, sorted by product id ascending.
// Two carts are equal iff their normalized forms are byte-identical.
func Normalize(lines []model.CartLine) (string, error) {
	normalized := make([]normalizedLine, len(lines))
	for i, line := range lines {
		opts := line.SelectedOptions
		if opts == nil {
			opts = map[string]string{}
		}
		normalized[i] = normalizedLine{
			ID:              line.ProductID,
			Quantity:        line.Quantity,
			SalePrice:       line.SalePrice,
			ShopID:          line.ShopID,
			SelectedOptions: opts,
		}
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].ID < normalized[j].ID
	})

	data, err := json.Marshal(normalized)
	if err != nil {
		return "", fmt.Errorf("failed to normalize cart: %w", err)
	}

	return string(data), nil
}

// Total returns the sum of quantity*sale_price over all lines.
func Total(lines []model.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += float64(line.Quantity) * line.SalePrice
	}
	return total
}

// ShopGroup is the subset of cart lines belonging to one shop. Each group
// becomes exactly one order during fulfillment.
type ShopGroup struct {
	ShopID string
	Lines  []model.CartLine
}

// GroupByShop partitions the cart by shop id, preserving the order in which
// shops first appear in the cart.
func GroupByShop(lines []model.CartLine) []ShopGroup {
	index := make(map[string]int)
	var groups []ShopGroup
	for _, line := range lines {
		i, ok := index[line.ShopID]
		if !ok {
			i = len(groups)
			index[line.ShopID] = i
			groups = append(groups, ShopGroup{ShopID: line.ShopID})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}

// GroupTotal returns the pre-discount total for one shop group.
func (g ShopGroup) Total() float64 {
	return Total(g.Lines)
}

// Discount returns the coupon discount applicable to this group, zero when
// the coupon's target product is not part of the group. Percentage coupons
// take precedence over flat amounts.
func (g ShopGroup) Discount(coupon *model.Coupon) float64 {
	if coupon == nil || coupon.DiscountedProductID == "" {
		return 0
	}
	for _, line := range g.Lines {
		if line.ProductID != coupon.DiscountedProductID {
			continue
		}
		if coupon.DiscountPercent > 0 {
			return line.SalePrice * float64(line.Quantity) * coupon.DiscountPercent / 100
		}
		return coupon.DiscountAmount
	}
	return 0
}
