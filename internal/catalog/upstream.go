// Package catalog relays product queries to the upstream catalog and reshapes
// its batches into pages.
package catalog

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/internal/domain"
)

var (
	ErrUpstream        = errors.New("error fetching products")
	ErrProductNotFound = errors.New("product not found")
)

// Upstream is the third-party catalog API.
type Upstream interface {
	// ListProducts returns the upstream's default listing.
	ListProducts(ctx context.Context) ([]domain.Product, error)
	// SearchProducts returns every product matching query; the upstream does not page it.
	SearchProducts(ctx context.Context, query string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error)
}
