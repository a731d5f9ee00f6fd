// Package cart holds the shopper's in-memory cart.
package cart

import (
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// Store is the cart state container. All mutation goes through its methods.
// Quantities are bounded by the stock seen when the product was added, which
// may be stale by checkout time.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartItem
}

func NewStore() *Store {
	return &Store{}
}

// Add puts product in the cart with quantity 1 and reports whether it did.
//
// Adding a product that is already in the cart keeps the existing line as is
// (the quantity is not bumped); quantities only change through SetQuantity.
// Out-of-stock products are not added.
func (s *Store) Add(product domain.Product) bool {
	if !product.InStock() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(product.ID) >= 0 {
		return false
	}
	s.items = append(s.items, domain.CartItem{Product: product, Quantity: 1})
	return true
}

func (s *Store) Remove(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(productID)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// SetQuantity changes an item's quantity. It is a no-op, returning false, when
// quantity is not positive, exceeds the item's known stock, or the item is absent.
func (s *Store) SetQuantity(productID int64, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(productID)
	if i < 0 || quantity <= 0 || quantity > s.items[i].Stock {
		return false
	}
	s.items[i].Quantity = quantity
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(productID int64) (domain.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(productID); i >= 0 {
		return s.items[i], true
	}
	return domain.CartItem{}, false
}

// Len is the number of distinct products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Count is the total quantity across lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, item := range s.items {
		n += item.Quantity
	}
	return n
}

func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CartTotal(s.items)
}

func (s *Store) indexLocked(productID int64) int {
	for i, item := range s.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
