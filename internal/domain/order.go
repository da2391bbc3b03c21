package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem snapshots one cart entry at checkout time. ProductName and
// ImageURL are denormalized so reorder can rebuild candidates without a
// product lookup.
type OrderLineItem struct {
	OrderID         uuid.UUID `json:"order_id"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ImageURL        string    `json:"image_url,omitempty"`
	Quantity        int       `json:"quantity"`
	PriceAtPurchase float64   `json:"price_at_purchase"`
}

// Order is immutable once created. TotalAmount equals the sum of
// quantity * price_at_purchase over its line items.
type Order struct {
	ID          uuid.UUID       `json:"order_id"`
	UserID      string          `json:"user_id"`
	TotalAmount float64         `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderLineItem `json:"items"`
}
