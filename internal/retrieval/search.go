package retrieval

import (
	"context"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// Searcher is ranked product retrieval: results come back sorted by
// descending similarity and may number fewer than count.
type Searcher interface {
	Search(ctx context.Context, query string, threshold float64, count int) ([]domain.Product, error)
}

// Embedder turns query text into a vector for the semantic half of the
// hybrid search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
