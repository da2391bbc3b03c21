package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/cart"
	"github.com/vedantkasargod/walmart-x1/internal/domain"
	"github.com/vedantkasargod/walmart-x1/internal/orders"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

func NewCoordinator(carts cart.Manager, repo orders.Repository, log *zap.Logger) *Coordinator {
	return &Coordinator{
		carts: carts,
		repo:  repo,
		log:   log,
	}
}

type Coordinator struct {
	carts cart.Manager
	repo  orders.Repository
	log   *zap.Logger
}

// Checkout converts the cart into a durable order and clears the cart.
// The order row and its line items are written in one transaction by the
// repository, so a failed checkout always leaves the cart intact and safe
// to retry.
func (c *Coordinator) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	entries, err := c.carts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	for _, entry := range entries {
		order.Items = append(order.Items, domain.OrderLineItem{
			OrderID:         order.ID,
			ProductID:       entry.ProductID,
			ProductName:     entry.Name,
			ImageURL:        entry.ImageURL,
			Quantity:        entry.Quantity,
			PriceAtPurchase: entry.Price,
		})
		order.TotalAmount += entry.Price * float64(entry.Quantity)
	}

	if err := c.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	c.log.Info("order created",
		zap.String("user_id", userID),
		zap.String("order_id", order.ID.String()),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("items", len(order.Items)))

	// The order is durable at this point. A failed clear must not fail the
	// checkout (a retry would duplicate the order); the cart TTL-expires.
	if err := c.carts.Clear(ctx, userID); err != nil {
		c.log.Error("failed to clear cart after checkout",
			zap.String("user_id", userID),
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}

	return order, nil
}
