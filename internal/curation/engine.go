package curation

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// Without a budget the engine just takes the highest-similarity candidates.
const fallbackPickCount = 7

// Decision is one line of the allocator's verdict: which product, how many.
type Decision struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// Allocator fits a product pool to a budget. Implementations see only
// id/name/price per product; similarity never leaves the engine.
type Allocator interface {
	Allocate(ctx context.Context, products []domain.Product, budget float64, userQuery string) ([]Decision, error)
}

func NewEngine(allocator Allocator, log *zap.Logger) *Engine {
	return &Engine{
		allocator: allocator,
		log:       log,
	}
}

type Engine struct {
	allocator Allocator
	log       *zap.Logger
}

// Curate selects and quantifies a final list from a deduplicated candidate
// pool. With no budget it is deterministic: top 7 by similarity, quantity 1.
// With a budget it defers the selection to the allocator and enriches each
// decision with the already-known product snapshot, so price and name can
// never drift from what retrieval showed. An allocator failure yields an
// empty list, not an error; the caller treats that as "curation failed".
func (e *Engine) Curate(ctx context.Context, pool []domain.Product, budget *float64, userQuery string) []domain.CandidateItem {
	if len(pool) == 0 {
		return nil
	}

	if budget == nil {
		return topBySimilarity(pool)
	}

	decisions, err := e.allocator.Allocate(ctx, pool, *budget, userQuery)
	if err != nil {
		e.log.Error("budget allocator failed", zap.Error(err))
		return nil
	}

	lookup := make(map[int64]domain.Product, len(pool))
	for _, p := range pool {
		lookup[p.ID] = p
	}

	seen := make(map[int64]bool, len(decisions))
	items := make([]domain.CandidateItem, 0, len(decisions))
	for _, d := range decisions {
		p, ok := lookup[d.ID]
		if !ok || seen[d.ID] {
			// Decisions referencing products we never offered are dropped.
			continue
		}
		seen[d.ID] = true

		qty := d.Quantity
		if qty < 1 {
			qty = 1
		}
		items = append(items, domain.CandidateItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			ImageURL: p.ImageURL,
			Quantity: qty,
		})
	}

	e.log.Info("budget curation complete",
		zap.Int("pool", len(pool)),
		zap.Int("decisions", len(decisions)),
		zap.Int("items", len(items)))
	return items
}

func topBySimilarity(pool []domain.Product) []domain.CandidateItem {
	ranked := make([]domain.Product, len(pool))
	copy(ranked, pool)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if len(ranked) > fallbackPickCount {
		ranked = ranked[:fallbackPickCount]
	}

	items := make([]domain.CandidateItem, 0, len(ranked))
	for _, p := range ranked {
		items = append(items, domain.CandidateItem{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			ImageURL: p.ImageURL,
			Quantity: 1,
		})
	}
	return items
}
