package cart

import (
	"context"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// Manager owns a user's temporary, pre-checkout cart. Entries are
// individually addressable; adding the same product twice yields two
// distinct entries.
type Manager interface {
	Add(ctx context.Context, userID string, product domain.Product, quantity int) (*domain.CartEntry, error)
	Remove(ctx context.Context, userID, entryID string) (bool, error)
	List(ctx context.Context, userID string) ([]domain.CartEntry, error)
	Clear(ctx context.Context, userID string) error
}
