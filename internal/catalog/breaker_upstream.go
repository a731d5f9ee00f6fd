package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
)

// errCallerGone marks a call that failed because its own context ended.
var errCallerGone = errors.New("caller context done")

// BreakerUpstream stops calling the upstream after repeated failures.
// Calls whose context was canceled or timed out do not count as failures.
type BreakerUpstream struct {
	next Upstream
	cb   *gobreaker.CircuitBreaker[any]
}

func NewBreakerUpstream(next Upstream, cfg circuitbreaker.Config) *BreakerUpstream {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrProductNotFound) || errors.Is(err, errCallerGone)
	}
	return &BreakerUpstream{
		next: next,
		cb:   circuitbreaker.New[any](cfg),
	}
}

func (b *BreakerUpstream) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return execute(ctx, b.cb, func() ([]domain.Product, error) {
		return b.next.ListProducts(ctx)
	})
}

func (b *BreakerUpstream) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return execute(ctx, b.cb, func() ([]domain.Product, error) {
		return b.next.SearchProducts(ctx, query)
	})
}

func (b *BreakerUpstream) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return execute(ctx, b.cb, func() (*domain.Product, error) {
		return b.next.GetProduct(ctx, id)
	})
}

func (b *BreakerUpstream) UpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	return execute(ctx, b.cb, func() (*domain.Product, error) {
		return b.next.UpdateStock(ctx, id, stock)
	})
}

func execute[T any](ctx context.Context, cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var callerErr error
	v, err := cb.Execute(func() (any, error) {
		res, err := fn()
		if err != nil && ctx.Err() != nil {
			callerErr = err
			return nil, errCallerGone
		}
		return res, err
	})
	if errors.Is(err, errCallerGone) {
		return zero, callerErr
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}
