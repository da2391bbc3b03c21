package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vedantkasargod/walmart-x1/internal/curation"
	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

// Service implements the planner, extractor, budget allocator and command
// classifier capabilities on top of one chat client. External payloads are
// validated and folded into closed variant types before anything dispatches
// on them.
type Service struct {
	client *Client
	log    *zap.Logger
}

func NewService(client *Client, log *zap.Logger) *Service {
	return &Service{
		client: client,
		log:    log,
	}
}

func (s *Service) Plan(ctx context.Context, query string) (*domain.Plan, error) {
	reply, err := s.client.Complete(ctx, plannerPrompt, query)
	if err != nil {
		return nil, fmt.Errorf("planner call: %w", err)
	}

	payload, err := extractJSONObject(reply)
	if err != nil {
		return nil, fmt.Errorf("planner reply: %w", err)
	}

	var raw struct {
		Intent       string   `json:"intent"`
		Themes       []string `json:"themes"`
		Budget       *float64 `json:"budget"`
		QueryForUser string   `json:"query_for_user"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal planner reply: %w", err)
	}

	plan := &domain.Plan{
		Intent: domain.ParseIntent(raw.Intent),
		Themes: raw.Themes,
		Budget: raw.Budget,
		Reply:  raw.QueryForUser,
	}
	s.log.Info("planner reply",
		zap.String("intent", string(plan.Intent)),
		zap.Strings("themes", plan.Themes))
	return plan, nil
}

func (s *Service) Extract(ctx context.Context, query string) (*domain.Extraction, error) {
	reply, err := s.client.Complete(ctx, extractorPrompt, query)
	if err != nil {
		return nil, fmt.Errorf("extractor call: %w", err)
	}

	payload, err := extractJSONObject(reply)
	if err != nil {
		return nil, fmt.Errorf("extractor reply: %w", err)
	}

	extraction, err := parseExtraction(payload)
	if err != nil {
		return nil, err
	}
	return extraction, nil
}

// parseExtraction tolerates the two structural mistakes small models make:
// returning a bare product object, or "products" as an object instead of an
// array.
func parseExtraction(payload string) (*domain.Extraction, error) {
	var raw struct {
		Intent   string          `json:"intent"`
		Products json.RawMessage `json:"products"`
		Name     string          `json:"name"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal extractor reply: %w", err)
	}

	extraction := &domain.Extraction{Intent: domain.ParseIntent(raw.Intent)}

	if len(raw.Products) == 0 {
		if raw.Name == "" {
			return extraction, nil
		}
		// Bare product object; assume the add intent it implies.
		var single domain.ExtractedProduct
		if err := json.Unmarshal([]byte(payload), &single); err != nil {
			return nil, fmt.Errorf("unmarshal bare product: %w", err)
		}
		extraction.Intent = domain.IntentAddToCart
		extraction.Products = []domain.ExtractedProduct{single}
		return extraction, nil
	}

	if err := json.Unmarshal(raw.Products, &extraction.Products); err != nil {
		var single domain.ExtractedProduct
		if err2 := json.Unmarshal(raw.Products, &single); err2 != nil {
			return nil, fmt.Errorf("unmarshal extracted products: %w", err)
		}
		extraction.Products = []domain.ExtractedProduct{single}
	}
	return extraction, nil
}

func (s *Service) Allocate(ctx context.Context, products []domain.Product, budget float64, userQuery string) ([]curation.Decision, error) {
	type offer struct {
		ID    int64   `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	offers := make([]offer, 0, len(products))
	for _, p := range products {
		offers = append(offers, offer{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	offersJSON, err := json.MarshalIndent(offers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal allocator products: %w", err)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "USER'S GOAL: %q\n", userQuery)
	fmt.Fprintf(&prompt, "BUDGET: %g\n", budget)
	fmt.Fprintf(&prompt, "AVAILABLE PRODUCTS:\n%s", offersJSON)

	reply, err := s.client.Complete(ctx, allocatorPrompt, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("allocator call: %w", err)
	}

	payload, err := extractJSONArray(reply)
	if err != nil {
		return nil, fmt.Errorf("allocator reply: %w", err)
	}

	var decisions []curation.Decision
	if err := json.Unmarshal([]byte(payload), &decisions); err != nil {
		return nil, fmt.Errorf("unmarshal allocator decisions: %w", err)
	}
	return decisions, nil
}

func (s *Service) ClassifyCommand(ctx context.Context, command string, current []domain.CandidateItem) (*domain.CommandAction, error) {
	// The classifier only needs to match names to ids and read quantities.
	type projected struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	list := make([]projected, 0, len(current))
	for _, item := range current {
		list = append(list, projected{ID: item.ID, Name: item.Name, Quantity: item.Quantity})
	}
	listJSON, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session projection: %w", err)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "CURRENT LIST:\n%s\n\n", listJSON)
	fmt.Fprintf(&prompt, "USER COMMAND: %q\n", command)

	reply, err := s.client.Complete(ctx, commandPrompt, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("command classifier call: %w", err)
	}

	payload, err := extractJSONObject(reply)
	if err != nil {
		return nil, fmt.Errorf("command classifier reply: %w", err)
	}

	var raw struct {
		Action   string `json:"action"`
		ItemID   int64  `json:"item_id"`
		Quantity int    `json:"quantity"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal command action: %w", err)
	}

	return &domain.CommandAction{
		Kind:     domain.ParseActionKind(raw.Action),
		ItemID:   raw.ItemID,
		Quantity: raw.Quantity,
	}, nil
}
