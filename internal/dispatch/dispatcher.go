package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/cart"
	"github.com/vedantkasargod/walmart-x1/internal/curation"
	"github.com/vedantkasargod/walmart-x1/internal/domain"
	"github.com/vedantkasargod/walmart-x1/internal/orders"
	"github.com/vedantkasargod/walmart-x1/internal/retrieval"
	"github.com/vedantkasargod/walmart-x1/internal/review"
)

// Retrieval thresholds per branch. Reorder recommendations are held to a
// higher bar than theme matches because they sit next to a known-good item.
const (
	reorderSimilarThreshold = 0.5
	reorderSimilarCount     = 5
	themeThreshold          = 0.35
	themeCount              = 5
	directAddThreshold      = 0.4
)

// Planner classifies a free-text query into a shopping plan.
type Planner interface {
	Plan(ctx context.Context, query string) (*domain.Plan, error)
}

// Extractor pulls structured product lines out of a direct add request.
type Extractor interface {
	Extract(ctx context.Context, query string) (*domain.Extraction, error)
}

// Result is what a dispatched query produced: either a provisional review
// list awaiting confirmation, or entries already committed to the cart.
type Result struct {
	Message     string                 `json:"message"`
	ReviewItems []domain.CandidateItem `json:"review_items,omitempty"`
	AddedItems  []domain.CartEntry     `json:"added_items,omitempty"`
}

func NewDispatcher(
	planner Planner,
	extractor Extractor,
	search retrieval.Searcher,
	history orders.Repository,
	curator *curation.Engine,
	carts cart.Manager,
	reviews review.Manager,
	log *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		planner:   planner,
		extractor: extractor,
		search:    search,
		history:   history,
		curator:   curator,
		carts:     carts,
		reviews:   reviews,
		log:       log,
	}
}

type Dispatcher struct {
	planner   Planner
	extractor Extractor
	search    retrieval.Searcher
	history   orders.Repository
	curator   *curation.Engine
	carts     cart.Manager
	reviews   review.Manager
	log       *zap.Logger
}

// PlanQuery runs the planner over the query and routes on its intent.
// Both branches end in a review-session write, never a direct cart write:
// AI-curated lists require human confirmation.
func (d *Dispatcher) PlanQuery(ctx context.Context, userID, query string) (*Result, error) {
	plan, err := d.planner.Plan(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: planner: %v", domain.ErrExternalService, err)
	}

	d.log.Info("planner decision",
		zap.String("user_id", userID),
		zap.String("intent", string(plan.Intent)),
		zap.Strings("themes", plan.Themes))

	switch plan.Intent {
	case domain.IntentReorder:
		return d.reorder(ctx, userID, plan)
	case domain.IntentCreateEvent:
		return d.createEvent(ctx, userID, query, plan)
	default:
		return nil, fmt.Errorf("%w: the planner could not understand the request", domain.ErrBadRequest)
	}
}

// reorder rebuilds a review list from the user's most recent order: each
// prior line item verbatim, followed by one similar-product suggestion.
func (d *Dispatcher) reorder(ctx context.Context, userID string, plan *domain.Plan) (*Result, error) {
	lines, err := d.history.LastOrderItems(ctx, userID)
	if err != nil {
		if errors.Is(err, orders.ErrNoOrders) {
			return nil, fmt.Errorf("%w: no previous orders to rebuild from", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("last order lookup: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no previous orders to rebuild from", domain.ErrNotFound)
	}

	var items []domain.CandidateItem
	for _, line := range lines {
		items = append(items, domain.CandidateItem{
			ID:       line.ProductID,
			Name:     line.ProductName,
			Price:    line.PriceAtPurchase,
			ImageURL: line.ImageURL,
			Quantity: line.Quantity,
			Source:   domain.SourceReorder,
		})

		similar, err := d.search.Search(ctx, line.ProductName, reorderSimilarThreshold, reorderSimilarCount)
		if err != nil {
			return nil, fmt.Errorf("%w: similar product search: %v", domain.ErrExternalService, err)
		}
		for _, alt := range similar {
			if alt.ID == line.ProductID {
				continue
			}
			items = append(items, domain.CandidateItem{
				ID:       alt.ID,
				Name:     alt.Name,
				Price:    alt.Price,
				ImageURL: alt.ImageURL,
				Quantity: 1,
				Source:   domain.SourceRecommendation,
			})
			break
		}
	}

	if err := d.reviews.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("save review session: %w", err)
	}

	message := plan.Reply
	if message == "" {
		message = "Rebuilt from your last order."
	}
	return &Result{Message: message, ReviewItems: items}, nil
}

// createEvent gathers candidates per theme, unions them by product id and
// hands the pool to the curation engine.
func (d *Dispatcher) createEvent(ctx context.Context, userID, query string, plan *domain.Plan) (*Result, error) {
	if len(plan.Themes) == 0 {
		return nil, fmt.Errorf("%w: no theme could be determined from the request", domain.ErrBadRequest)
	}

	var pool []domain.Product
	seen := make(map[int64]bool)
	for _, theme := range plan.Themes {
		matches, err := d.search.Search(ctx, theme, themeThreshold, themeCount)
		if err != nil {
			return nil, fmt.Errorf("%w: theme search %q: %v", domain.ErrExternalService, theme, err)
		}
		for _, p := range matches {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: no items matched those themes", domain.ErrNotFound)
	}

	items := d.curator.Curate(ctx, pool, plan.Budget, query)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: the curator could not build a list for the request", domain.ErrNotFound)
	}
	for i := range items {
		items[i].Source = domain.SourceCurated
	}

	if err := d.reviews.Save(ctx, userID, items); err != nil {
		return nil, fmt.Errorf("save review session: %w", err)
	}

	return &Result{
		Message:     "Here are some curated suggestions for your event.",
		ReviewItems: items,
	}, nil
}

// DirectAdd resolves explicitly requested products and commits them straight
// to the cart, bypassing the review session. All retrieval completes before
// the first cart write so a failed lookup never leaves a partial add behind.
func (d *Dispatcher) DirectAdd(ctx context.Context, userID, query string) (*Result, error) {
	extraction, err := d.extractor.Extract(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: extractor: %v", domain.ErrExternalService, err)
	}
	if extraction.Intent != domain.IntentAddToCart {
		return nil, fmt.Errorf("%w: only add requests are handled in this mode", domain.ErrBadRequest)
	}
	if len(extraction.Products) == 0 {
		return nil, fmt.Errorf("%w: no products found in the request", domain.ErrBadRequest)
	}

	type resolved struct {
		product  domain.Product
		quantity int
	}
	var matched []resolved
	for _, line := range extraction.Products {
		phrase := searchPhrase(line)
		candidates, err := d.search.Search(ctx, phrase, directAddThreshold, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: product search %q: %v", domain.ErrExternalService, phrase, err)
		}
		if len(candidates) == 0 {
			d.log.Warn("no match for extracted product",
				zap.String("user_id", userID),
				zap.String("phrase", phrase))
			continue
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		matched = append(matched, resolved{product: candidates[0], quantity: qty})
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: none of the requested products matched", domain.ErrNotFound)
	}

	var added []domain.CartEntry
	for _, m := range matched {
		entry, err := d.carts.Add(ctx, userID, m.product, m.quantity)
		if err != nil {
			return nil, fmt.Errorf("add to cart: %w", err)
		}
		added = append(added, *entry)
	}

	return &Result{
		Message:    fmt.Sprintf("Added %d item(s) to your cart.", len(added)),
		AddedItems: added,
	}, nil
}

// searchPhrase joins the preference terms with the product name, e.g.
// ["big","blue"] + "lays" -> "big blue lays".
func searchPhrase(line domain.ExtractedProduct) string {
	parts := append(append([]string{}, line.Preferences...), line.Name)
	return strings.TrimSpace(strings.Join(parts, " "))
}
