package model

// SessionSeller carries the payout routing data for one shop present in a
// checkout session. StripeAccountID may be empty when the shop could not be
// resolved at session-creation time; intent creation fails later in that case.
type SessionSeller struct {
	ShopID          string `json:"shopId"`
	SellerID        string `json:"sellerId"`
	StripeAccountID string `json:"stripeAccountId"`
}

// CheckoutSession is the ephemeral record correlating a user's cart snapshot
// to a pending payment. It lives only in the session store under a fixed TTL
// and is consumed exactly once by fulfillment.
type CheckoutSession struct {
	UserID            string          `json:"userId"`
	Cart              []CartLine      `json:"cart"`
	Sellers           []SessionSeller `json:"sellers"`
	TotalAmount       float64         `json:"totalAmount"`
	ShippingAddressID *string         `json:"shippingAddressId"`
	Coupon            *Coupon         `json:"coupon"`
}

// PaymentSessionRequest is the request payload for creating a payment session.
type PaymentSessionRequest struct {
	Cart              []CartLine `json:"cart"`
	SelectedAddressID *string    `json:"selectedAddressId,omitempty"`
	Coupon            *Coupon    `json:"coupon,omitempty"`
}

// PaymentSessionResponse is returned on session creation or reuse.
type PaymentSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// VerifySessionResponse is returned when a session is looked up by id.
type VerifySessionResponse struct {
	Success bool             `json:"success"`
	Session *CheckoutSession `json:"session"`
}

// PaymentIntentRequest is the request payload for creating a payment intent.
// Amount and StripeID are accepted for wire compatibility with the storefront
// but the charge amount is always recomputed from the stored session.
type PaymentIntentRequest struct {
	Amount    float64 `json:"amount"`
	StripeID  string  `json:"stripeId"`
	SessionID string  `json:"sessionId"`
}

// PaymentIntentResponse carries the processor's client confirmation token.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
