package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/gatewayclient"
)

var (
	_ StockGateway = (*gatewayclient.Client)(nil)
	_ StockGateway = (*MockGateway)(nil)
)

// MockGateway implements StockGateway over an in-memory product table
type MockGateway struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	updates  map[int64]int

	GetErr    error
	UpdateErr map[int64]error
	// block, when set, holds every GetProduct until closed
	block   chan struct{}
	getSeen chan int64
}

func newMockGateway(products ...domain.Product) *MockGateway {
	m := &MockGateway{
		products:  make(map[int64]domain.Product),
		updates:   make(map[int64]int),
		UpdateErr: make(map[int64]error),
		getSeen:   make(chan int64, 16),
	}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockGateway) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	m.getSeen <- id
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.GetErr != nil {
		return nil, m.GetErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, &gatewayclient.StatusError{StatusCode: 404, Code: "not_found"}
	}
	return &p, nil
}

func (m *MockGateway) UpdateStock(_ context.Context, id int64, stock int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.UpdateErr[id]; err != nil {
		return err
	}
	m.updates[id] = stock
	p := m.products[id]
	p.Stock = stock
	m.products[id] = p
	return nil
}

func (m *MockGateway) Updates() map[int64]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int64]int, len(m.updates))
	for k, v := range m.updates {
		out[k] = v
	}
	return out
}

var errWriteFailed = errors.New("write failed")
