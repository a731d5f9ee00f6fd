package domain

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// TotalPages is ceil(Total/Limit). A zero limit yields zero pages.
func (p Page[T]) TotalPages() int {
	return PageCount(p.Total, p.Limit)
}

func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total-1)/limit + 1
}
