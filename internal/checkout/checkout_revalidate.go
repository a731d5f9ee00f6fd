package checkout

import (
	"context"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// revalidate fetches the live product for every line concurrently and checks
// that each requested quantity is still available. No writes happen here.
func (f *Flow) revalidate(ctx context.Context, items []domain.CartItem) (map[int64]domain.Product, error) {
	products := make([]domain.Product, len(items))

	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			p, err := f.gateway.GetProduct(gctx, item.ID)
			if err != nil {
				return fmt.Errorf("fetch product %d: %w", item.ID, err)
			}
			products[i] = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	live := make(map[int64]domain.Product, len(products))
	var shortfalls []Shortfall
	for i, item := range items {
		p := products[i]
		live[item.ID] = p
		if p.Stock < item.Quantity {
			shortfalls = append(shortfalls, Shortfall{
				ProductID: item.ID,
				Title:     item.Title,
				Requested: item.Quantity,
				Available: p.Stock,
			})
		}
	}
	if len(shortfalls) > 0 {
		stockErr := &InsufficientStockError{Shortfalls: shortfalls}
		logger.Printf(ctx, "Stock check failed: %s", stockErr.Detail())
		return nil, stockErr
	}
	return live, nil
}
