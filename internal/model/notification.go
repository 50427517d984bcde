package model

import (
	"time"

	"github.com/google/uuid"
)

// AdminReceiverID is the receiver id used for platform-wide order alerts.
const AdminReceiverID = "admin"

// Notification is a fire-and-forget in-app notification record. One is
// created per affected seller plus one for the platform administrator on
// every completed checkout.
type Notification struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Message      string    `json:"message" db:"message"`
	CreatorID    string    `json:"creatorId" db:"creator_id"`
	ReceiverID   string    `json:"receiverId" db:"receiver_id"`
	RedirectLink string    `json:"redirectLink" db:"redirect_link"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// PurchaseAction is a single entry of a user's analytics action log,
// appended on every purchased line.
type PurchaseAction struct {
	ProductID string `json:"productId"`
	ShopID    string `json:"shopId"`
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}
