package dispatch

import (
	"context"
	"sync"

	"github.com/vedantkasargod/walmart-x1/internal/domain"
)

type mockPlanner struct {
	plan *domain.Plan
	err  error
}

func (m *mockPlanner) Plan(context.Context, string) (*domain.Plan, error) {
	return m.plan, m.err
}

type mockExtractor struct {
	extraction *domain.Extraction
	err        error
}

func (m *mockExtractor) Extract(context.Context, string) (*domain.Extraction, error) {
	return m.extraction, m.err
}

// mockSearcher returns canned results keyed by query text.
type mockSearcher struct {
	results map[string][]domain.Product
	err     error
	queries []string
}

func (m *mockSearcher) Search(_ context.Context, query string, _ float64, _ int) ([]domain.Product, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.results[query], nil
}

type mockHistory struct {
	items []domain.OrderLineItem
	err   error
}

func (m *mockHistory) CreateOrder(context.Context, *domain.Order) error {
	return nil
}

func (m *mockHistory) LastOrderItems(context.Context, string) ([]domain.OrderLineItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

type mockCart struct {
	m       sync.Mutex
	entries []domain.CartEntry
	err     error
	nextID  int
}

func (m *mockCart) Add(_ context.Context, _ string, product domain.Product, quantity int) (*domain.CartEntry, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	entry := domain.CartEntry{
		EntryID:   string(rune('a' + m.nextID)),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	}
	m.entries = append(m.entries, entry)
	return &entry, nil
}

func (m *mockCart) Remove(context.Context, string, string) (bool, error) {
	return false, m.err
}

func (m *mockCart) List(context.Context, string) ([]domain.CartEntry, error) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.entries, m.err
}

func (m *mockCart) Clear(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.entries = nil
	return m.err
}

type mockReviews struct {
	m     sync.Mutex
	saved []domain.CandidateItem
	err   error
}

func (m *mockReviews) Save(_ context.Context, _ string, items []domain.CandidateItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = items
	return nil
}

func (m *mockReviews) Get(context.Context, string) ([]domain.CandidateItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.saved, m.err
}

func (m *mockReviews) Clear(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saved = nil
	return m.err
}
