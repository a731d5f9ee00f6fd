package catalog

import "github.com/fjod/go_storefront/internal/domain"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Paginate cuts one page out of items. Total is len(items). A page past the end
// yields no items and reports the last valid page (1 when there is nothing at all),
// so callers can detect the correction by comparing pages.
func Paginate[T any](items []T, page, limit int) domain.Page[T] {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	total := len(items)
	totalPages := domain.PageCount(total, limit)
	if page > totalPages {
		return domain.Page[T]{
			Items: []T{},
			Total: total,
			Page:  max(totalPages, 1),
			Limit: limit,
		}
	}

	start := (page - 1) * limit
	end := min(start+limit, total)
	window := make([]T, end-start)
	copy(window, items[start:end])

	return domain.Page[T]{
		Items: window,
		Total: total,
		Page:  page,
		Limit: limit,
	}
}
