// Package browser drives the paginated, searchable product listing.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/debounce"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
)

const (
	ItemsPerPage   = 12
	SearchDebounce = 500 * time.Millisecond
)

var ErrFetchProducts = errors.New("failed to fetch products")

// ProductSource is satisfied by *gatewayclient.Client.
type ProductSource interface {
	GetProducts(ctx context.Context, page, limit int, search string) (*domain.Page[domain.Product], error)
}

// State is a snapshot of what the listing shows.
type State struct {
	Page       int
	Search     string
	TotalPages int
	Loading    bool
	Products   []domain.Product
	Err        error
}

type Option func(*Browser)

// WithDebounce overrides the search debounce window.
func WithDebounce(window time.Duration) Option {
	return func(b *Browser) {
		b.debouncer = debounce.New(window)
	}
}

type Browser struct {
	source    ProductSource
	debouncer *debounce.Debouncer

	mu          sync.Mutex
	state       State
	seq         uint64 // id of the newest fetch; older responses are dropped
	subscribers []func(State)
}

func New(source ProductSource, opts ...Option) *Browser {
	b := &Browser{
		source:    source,
		debouncer: debounce.New(SearchDebounce),
		state:     State{Page: 1},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load fetches the current page and search immediately.
func (b *Browser) Load(ctx context.Context) error {
	b.mu.Lock()
	page, search := b.state.Page, b.state.Search
	b.mu.Unlock()

	return b.fetch(ctx, page, search)
}

// SetPage moves to page and fetches it immediately.
func (b *Browser) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	b.mu.Lock()
	b.state.Page = page
	search := b.state.Search
	b.mu.Unlock()

	return b.fetch(ctx, page, search)
}

// SetSearch records the search term and schedules a fetch of its first page.
// Only the last term of a burst typed within the debounce window is fetched.
func (b *Browser) SetSearch(ctx context.Context, term string) {
	b.mu.Lock()
	b.state.Search = term
	b.mu.Unlock()
	b.notify()

	b.debouncer.Trigger(func() {
		b.mu.Lock()
		b.state.Page = 1
		b.mu.Unlock()

		_ = b.fetch(ctx, 1, strings.TrimSpace(term))
	})
}

func (b *Browser) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
func (b *Browser) Subscribe(fn func(State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Close drops any pending debounced search.
func (b *Browser) Close() {
	b.debouncer.Stop()
}

func (b *Browser) fetch(ctx context.Context, page int, search string) error {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.state.Loading = true
	b.mu.Unlock()
	b.notify()

	resp, err := b.source.GetProducts(ctx, page, ItemsPerPage, search)

	b.mu.Lock()
	if seq != b.seq {
		b.mu.Unlock()
		return nil
	}
	b.state.Loading = false
	if err != nil {
		fetchErr := fmt.Errorf("%w: %w", ErrFetchProducts, err)
		b.state.Err = fetchErr
		b.mu.Unlock()
		logger.Printf(ctx, "Error fetching products page=%d search=%q: %v", page, search, err)
		b.notify()
		return fetchErr
	}

	b.state.Err = nil
	b.state.Products = resp.Items
	b.state.TotalPages = domain.PageCount(resp.Total, ItemsPerPage)
	if resp.Page != page {
		// the gateway clamped an out-of-range page
		b.state.Page = resp.Page
	}
	b.mu.Unlock()
	b.notify()
	return nil
}

func (b *Browser) notify() {
	b.mu.Lock()
	subs := make([]func(State), len(b.subscribers))
	copy(subs, b.subscribers)
	state := b.snapshotLocked()
	b.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

func (b *Browser) snapshotLocked() State {
	s := b.state
	s.Products = make([]domain.Product, len(b.state.Products))
	copy(s.Products, b.state.Products)
	return s
}
