package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fjod/go_storefront/internal/domain"
)

// mockUpstream is an in-memory catalog.
type mockUpstream struct {
	mu         sync.Mutex
	products   []domain.Product
	err        error
	listCalls  atomic.Int32
	searchArgs []string
	block      chan struct{}
}

func (m *mockUpstream) ListProducts(ctx context.Context) ([]domain.Product, error) {
	m.listCalls.Add(1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Product(nil), m.products...), nil
}

func (m *mockUpstream) SearchProducts(_ context.Context, query string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchArgs = append(m.searchArgs, query)
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Product
	for _, p := range m.products {
		if p.Category == query {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockUpstream) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ErrProductNotFound
}

func (m *mockUpstream) UpdateStock(_ context.Context, id int64, stock int) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].Stock = stock
			updated := m.products[i]
			return &updated, nil
		}
	}
	return nil, ErrProductNotFound
}

type mockPublisher struct {
	mu        sync.Mutex
	published []domain.Product
	err       error
}

func (m *mockPublisher) PublishStockChange(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, p)
	return m.err
}

func testProducts(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		category := "beauty"
		if i%2 == 1 {
			category = "groceries"
		}
		out[i] = domain.Product{
			ID:       int64(i + 1),
			Title:    "Product",
			Category: category,
			Price:    float64(i) + 0.99,
			Stock:    10,
		}
	}
	return out
}
