package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Products_DefaultListing(t *testing.T) {
	up := &mockUpstream{products: testProducts(30)}
	svc := NewService(up, nil)

	page, err := svc.Products(context.Background(), 2, 12, "")
	require.NoError(t, err)

	assert.Equal(t, 30, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 12, page.Limit)
	require.Len(t, page.Items, 12)
	assert.Equal(t, int64(13), page.Items[0].ID)
	assert.Empty(t, up.searchArgs)
}

func TestService_Products_SearchUsesReturnedCountAsTotal(t *testing.T) {
	up := &mockUpstream{products: testProducts(30)}
	svc := NewService(up, nil)

	page, err := svc.Products(context.Background(), 1, 10, "  groceries ")
	require.NoError(t, err)

	assert.Equal(t, []string{"groceries"}, up.searchArgs)
	assert.Equal(t, 15, page.Total)
	assert.Len(t, page.Items, 10)
	assert.Zero(t, up.listCalls.Load())
}

func TestService_Products_PageBeyondRange(t *testing.T) {
	up := &mockUpstream{products: testProducts(30)}
	svc := NewService(up, nil)

	page, err := svc.Products(context.Background(), 9, 12, "")
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Page)
}

func TestService_Products_Idempotent(t *testing.T) {
	up := &mockUpstream{products: testProducts(30)}
	svc := NewService(up, nil)

	first, err := svc.Products(context.Background(), 2, 7, "beauty")
	require.NoError(t, err)
	second, err := svc.Products(context.Background(), 2, 7, "beauty")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_Products_UpstreamError(t *testing.T) {
	up := &mockUpstream{err: ErrUpstream}
	svc := NewService(up, nil)

	page, err := svc.Products(context.Background(), 1, 10, "")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, page)
}

func TestService_Products_CoalescesConcurrentFetches(t *testing.T) {
	up := &mockUpstream{products: testProducts(5), block: make(chan struct{})}
	svc := NewService(up, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := svc.Products(context.Background(), 1, 10, "")
			assert.NoError(t, err)
			assert.Len(t, page.Items, 5)
		}()
	}

	require.Eventually(t, func() bool { return up.listCalls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond) // let the rest join the in-flight call
	close(up.block)
	wg.Wait()

	assert.Equal(t, int32(1), up.listCalls.Load())
}

func TestService_Product_NotFound(t *testing.T) {
	svc := NewService(&mockUpstream{products: testProducts(2)}, nil)

	_, err := svc.Product(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProductNotFound)

	p, err := svc.Product(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.ID)
}

func TestService_UpdateStock_Publishes(t *testing.T) {
	up := &mockUpstream{products: testProducts(3)}
	pub := &mockPublisher{}
	svc := NewService(up, pub)

	p, err := svc.UpdateStock(context.Background(), 2, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, p.Stock)
	require.Len(t, pub.published, 1)
	assert.Equal(t, int64(2), pub.published[0].ID)
	assert.Equal(t, 4, pub.published[0].Stock)
}

func TestService_UpdateStock_PublishFailureIsNotFatal(t *testing.T) {
	up := &mockUpstream{products: testProducts(3)}
	pub := &mockPublisher{err: errors.New("kafka down")}
	svc := NewService(up, pub)

	p, err := svc.UpdateStock(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestService_UpdateStock_UpstreamFailureSkipsPublish(t *testing.T) {
	up := &mockUpstream{products: testProducts(3)}
	pub := &mockPublisher{}
	svc := NewService(up, pub)

	_, err := svc.UpdateStock(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, pub.published)
}

func TestService_Products_CanceledCallerDoesNotFailOthers(t *testing.T) {
	up := &mockUpstream{products: testProducts(5), block: make(chan struct{})}
	svc := NewService(up, nil)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := svc.Products(leaderCtx, 1, 10, "")
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return up.listCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

	type result struct {
		total int
		err   error
	}
	followerRes := make(chan result, 1)
	go func() {
		page, err := svc.Products(context.Background(), 1, 10, "")
		if err != nil {
			followerRes <- result{err: err}
			return
		}
		followerRes <- result{total: page.Total}
	}()
	time.Sleep(20 * time.Millisecond) // let the follower join the in-flight call

	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(up.block)
	res := <-followerRes
	require.NoError(t, res.err)
	assert.Equal(t, 5, res.total)
	assert.Equal(t, int32(1), up.listCalls.Load())
}

func TestService_Products_FetchTimeoutBoundsSharedCall(t *testing.T) {
	up := &mockUpstream{products: testProducts(5), block: make(chan struct{})}
	defer close(up.block)
	svc := NewService(up, nil, WithFetchTimeout(20*time.Millisecond))

	_, err := svc.Products(context.Background(), 1, 10, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
