package domain

// CartItem is a product snapshot taken when it was added, plus the requested quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartTotal sums item subtotals.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
