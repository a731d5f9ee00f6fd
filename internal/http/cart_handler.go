package http

import "net/http"

// CartHandler reserves the cart route. The cart lives client-side, so there is
// nothing to serve yet.
type CartHandler struct{}

func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Cart endpoint"})
}
