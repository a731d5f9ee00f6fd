package checkout

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"golang.org/x/sync/errgroup"
)

// commit writes live stock minus the ordered quantity for every line.
// Writes are issued concurrently and each one runs to completion; a failure
// of one does not cancel the others.
func (f *Flow) commit(ctx context.Context, items []domain.CartItem, live map[int64]domain.Product) error {
	var (
		mu        sync.Mutex
		committed []int64
		failed    []int64
		g         errgroup.Group
	)

	for _, item := range items {
		newStock := live[item.ID].Stock - item.Quantity
		g.Go(func() error {
			err := f.gateway.UpdateStock(ctx, item.ID, newStock)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, item.ID)
				return fmt.Errorf("update stock for product %d: %w", item.ID, err)
			}
			committed = append(committed, item.ID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slices.Sort(committed)
		slices.Sort(failed)
		return &CommitError{Committed: committed, Failed: failed, Err: err}
	}
	return nil
}
