package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// StockPublisher announces stock changes made through the gateway.
type StockPublisher interface {
	PublishStockChange(ctx context.Context, product domain.Product) error
}

// DefaultFetchTimeout bounds a shared listing fetch once it is detached from its callers.
const DefaultFetchTimeout = 30 * time.Second

type Service struct {
	upstream     Upstream
	publisher    StockPublisher
	sfg          singleflight.Group // coalesces identical upstream fetches
	fetchTimeout time.Duration
}

type ServiceOption func(*Service)

func WithFetchTimeout(d time.Duration) ServiceOption {
	return func(s *Service) { s.fetchTimeout = d }
}

// NewService wires the gateway logic. publisher may be nil.
func NewService(upstream Upstream, publisher StockPublisher, opts ...ServiceOption) *Service {
	s := &Service{
		upstream:     upstream,
		publisher:    publisher,
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products returns one page of the default listing, or of the search results when search is set.
func (s *Service) Products(ctx context.Context, page, limit int, search string) (*domain.Page[domain.Product], error) {
	search = strings.TrimSpace(search)

	key := "list"
	if search != "" {
		key = "search:" + search
	}

	// The shared fetch outlives any single caller; each caller waits on its own ctx.
	ch := s.sfg.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		if search != "" {
			return s.upstream.SearchProducts(fetchCtx, search)
		}
		return s.upstream.ListProducts(fetchCtx)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		logger.Printf(ctx, "upstream fetch %q failed: %v", key, res.Err)
		return nil, res.Err
	}

	result := Paginate(res.Val.([]domain.Product), page, limit)
	return &result, nil
}

func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.upstream.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// UpdateStock sets the product's stock upstream and publishes the change.
// Publishing is best-effort.
func (s *Service) UpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	p, err := s.upstream.UpdateStock(ctx, id, stock)
	if err != nil {
		return nil, fmt.Errorf("update stock of product %d: %w", id, err)
	}

	if s.publisher != nil {
		if errPublish := s.publisher.PublishStockChange(ctx, *p); errPublish != nil {
			logger.Printf(ctx, "failed to publish stock change for product %d: %v", id, errPublish)
		}
	}
	return p, nil
}
