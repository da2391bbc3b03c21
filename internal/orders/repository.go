package orders

import (
	"context"
	"errors"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

var ErrNoOrders = errors.New("user has no orders")

// Repository is the durable order store. Orders are written exactly once and
// never mutated.
type Repository interface {
	// CreateOrder inserts the order row and all its line items atomically.
	CreateOrder(ctx context.Context, order *domain.Order) error

	// LastOrderItems returns the line items of the user's most recent order,
	// or ErrNoOrders when there is no order history.
	LastOrderItems(ctx context.Context, userID string) ([]domain.OrderLineItem, error)
}
