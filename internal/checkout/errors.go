package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrCommitFailed       = errors.New("stock update failed")
	ErrIllegalTransition  = errors.New("illegal transition of checkout status")
)

const (
	insufficientStockMessage = "Some items in your cart are no longer in stock"
	processingErrorMessage   = "Error processing your order"
)

// Shortfall is one cart line asking for more than is currently in stock.
type Shortfall struct {
	ProductID int64
	Title     string
	Requested int
	Available int
}

type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	return insufficientStockMessage
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Detail lists every shortfall, for logs.
func (e *InsufficientStockError) Detail() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("product %d requested %d available %d", s.ProductID, s.Requested, s.Available)
	}
	return strings.Join(parts, "; ")
}

// CommitError reports a commit where at least one stock write failed.
// Writes that succeeded are not rolled back.
type CommitError struct {
	Committed []int64
	Failed    []int64
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %d of %d stock updates failed: %v",
		ErrCommitFailed, len(e.Failed), len(e.Failed)+len(e.Committed), e.Err)
}

func (e *CommitError) Unwrap() []error {
	return []error{ErrCommitFailed, e.Err}
}

// userReason is the message shown for a failed attempt.
func userReason(err error) string {
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	return processingErrorMessage
}
