package domain

// Product mirrors the fields the storefront reads from the upstream catalog.
type Product struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	Brand               string  `json:"brand"`
	Category            string  `json:"category"`
	Thumbnail           string  `json:"thumbnail"`
	ShippingInformation string  `json:"shippingInformation"`
	Price               float64 `json:"price"`
	Rating              float64 `json:"rating"`
	Stock               int     `json:"stock"`
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
