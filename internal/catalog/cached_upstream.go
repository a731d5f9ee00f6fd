package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "catalog:"

var errCacheMiss = errors.New("cache miss")

// CachedUpstream keeps listing and search batches in Redis for a short TTL.
// Single products are never cached so stock reads stay live.
type CachedUpstream struct {
	next   Upstream
	client *redis.Client
	ttl    time.Duration
}

func NewCachedUpstream(next Upstream, client *redis.Client, ttl time.Duration) *CachedUpstream {
	return &CachedUpstream{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (c *CachedUpstream) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return c.cached(ctx, listCacheKey(), func() ([]domain.Product, error) {
		return c.next.ListProducts(ctx)
	})
}

func (c *CachedUpstream) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return c.cached(ctx, searchCacheKey(query), func() ([]domain.Product, error) {
		return c.next.SearchProducts(ctx, query)
	})
}

func (c *CachedUpstream) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return c.next.GetProduct(ctx, id)
}

// UpdateStock writes through and drops every cached batch, since any of them may hold the product.
func (c *CachedUpstream) UpdateStock(ctx context.Context, id int64, stock int) (*domain.Product, error) {
	p, err := c.next.UpdateStock(ctx, id, stock)
	if err != nil {
		return nil, err
	}
	if errInvalidate := c.invalidate(ctx); errInvalidate != nil {
		log.Printf("catalog cache invalidate error: %v", errInvalidate)
	}
	return p, nil
}

func (c *CachedUpstream) cached(ctx context.Context, key string, load func() ([]domain.Product, error)) ([]domain.Product, error) {
	products, err := c.get(ctx, key)
	if err == nil {
		return products, nil
	}
	if !errors.Is(err, errCacheMiss) {
		log.Printf("catalog cache get error: %v", err) // fall through to upstream
	}

	products, err = load()
	if err != nil {
		return nil, err
	}
	if errSet := c.set(ctx, key, products); errSet != nil {
		log.Printf("catalog cache set error: %v", errSet)
	}
	return products, nil
}

func (c *CachedUpstream) get(ctx context.Context, key string) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err)
	}
	return products, nil
}

func (c *CachedUpstream) set(ctx context.Context, key string, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *CachedUpstream) invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func listCacheKey() string {
	return cacheKeyPrefix + "list"
}

func searchCacheKey(query string) string {
	return fmt.Sprintf("%ssearch:%s", cacheKeyPrefix, query)
}
