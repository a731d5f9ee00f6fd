// Package checkout places an order: it re-checks live stock for every cart
// line, then writes the decremented stock back through the gateway.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	RedirectDelay  = 2 * time.Second
	DefaultTimeout = 30 * time.Second
	homePath       = "/"
)

// StockGateway is satisfied by *gatewayclient.Client.
type StockGateway interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int) error
}

// CartStore is satisfied by *cart.Store.
type CartStore interface {
	Items() []domain.CartItem
	Clear()
}

// Navigator moves the shopper to path.
type Navigator func(path string)

// Attempt describes the latest checkout attempt.
type Attempt struct {
	ID         string
	Status     domain.CheckoutStatus
	Reason     string
	Total      float64
	StartedAt  time.Time
	FinishedAt time.Time
}

type Option func(*Flow)

func WithNavigator(n Navigator) Option {
	return func(f *Flow) { f.navigate = n }
}

func WithRedirectDelay(d time.Duration) Option {
	return func(f *Flow) { f.redirectDelay = d }
}

// WithTimeout bounds a whole attempt, reads and writes together.
func WithTimeout(d time.Duration) Option {
	return func(f *Flow) { f.timeout = d }
}

type Flow struct {
	gateway       StockGateway
	cart          CartStore
	navigate      Navigator
	redirectDelay time.Duration
	timeout       time.Duration

	mu       sync.Mutex
	attempt  Attempt
	redirect *time.Timer
}

func NewFlow(gateway StockGateway, cart CartStore, opts ...Option) *Flow {
	f := &Flow{
		gateway:       gateway,
		cart:          cart,
		redirectDelay: RedirectDelay,
		timeout:       DefaultTimeout,
		attempt:       Attempt{Status: domain.CheckoutStatusIdle},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) State() Attempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempt
}

// Submit runs one checkout attempt for the current cart contents.
//
// Errors from the pre-checks (ErrCheckoutInProgress, domain.ErrInvalidForm,
// ErrEmptyCart) leave the state untouched. Any later error ends the attempt
// as FAILED with the cart unchanged, and the caller may submit again.
func (f *Flow) Submit(ctx context.Context, form domain.CheckoutForm) (Attempt, error) {
	items, err := f.begin(form)
	if err != nil {
		return f.State(), err
	}

	attempt := f.State()
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	logger.Printf(ctx, "Checkout %s started: %d items, total %.2f", attempt.ID, len(items), attempt.Total)

	live, err := f.revalidate(ctx, items)
	if err != nil {
		return f.fail(ctx, err)
	}
	if err := f.commit(ctx, items, live); err != nil {
		return f.fail(ctx, err)
	}
	return f.complete(ctx)
}

// Close cancels a pending post-checkout redirect.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.redirect != nil {
		f.redirect.Stop()
		f.redirect = nil
	}
}

func (f *Flow) complete(ctx context.Context) (Attempt, error) {
	f.cart.Clear()

	f.mu.Lock()
	if !domain.CanTransitionTo(f.attempt.Status, domain.CheckoutStatusSuccess) {
		f.mu.Unlock()
		return f.State(), ErrIllegalTransition
	}
	f.attempt.Status = domain.CheckoutStatusSuccess
	f.attempt.FinishedAt = time.Now()
	if f.navigate != nil {
		navigate := f.navigate
		f.redirect = time.AfterFunc(f.redirectDelay, func() { navigate(homePath) })
	}
	attempt := f.attempt
	f.mu.Unlock()

	logger.Printf(ctx, "Checkout %s completed", attempt.ID)
	return attempt, nil
}

func (f *Flow) fail(ctx context.Context, err error) (Attempt, error) {
	f.mu.Lock()
	if domain.CanTransitionTo(f.attempt.Status, domain.CheckoutStatusFailed) {
		f.attempt.Status = domain.CheckoutStatusFailed
		f.attempt.Reason = userReason(err)
		f.attempt.FinishedAt = time.Now()
	}
	attempt := f.attempt
	f.mu.Unlock()

	logger.Printf(ctx, "Checkout %s failed: %v", attempt.ID, err)
	return attempt, err
}

func newAttemptID() string {
	return uuid.NewString()
}
