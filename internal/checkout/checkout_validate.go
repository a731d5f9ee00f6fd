package checkout

import (
	"time"

	"github.com/fjod/go_storefront/internal/domain"
)

// begin runs the pre-checks and, if they pass, moves the flow to SUBMITTING
// with a fresh attempt. It returns the cart snapshot the attempt works on.
func (f *Flow) begin(form domain.CheckoutForm) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.attempt.Status == domain.CheckoutStatusSubmitting {
		return nil, ErrCheckoutInProgress
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}
	items := f.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if !domain.CanTransitionTo(f.attempt.Status, domain.CheckoutStatusSubmitting) {
		return nil, ErrIllegalTransition
	}

	if f.redirect != nil {
		f.redirect.Stop()
		f.redirect = nil
	}
	f.attempt = Attempt{
		ID:        newAttemptID(),
		Status:    domain.CheckoutStatusSubmitting,
		Total:     domain.CartTotal(items),
		StartedAt: time.Now(),
	}
	return items, nil
}
