package pagination

import (
	"math"
)

// Pagination describes one page of a list
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination.
// PerPage 0 means "everything on one page".
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// All returns params selecting the whole list
func All() *PaginationParams {
	return &PaginationParams{Page: 1}
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 0 {
		p.PerPage = 0
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset of the first item of the page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := 1
	if perPage > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(perPage)))
	}
	if totalPages < 1 {
		totalPages = 1
	}

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Slice cuts the requested page out of an in-memory list. Pages past the
// end are empty, never nil.
func Slice[T any](items []T, params *PaginationParams) ([]T, *Pagination) {
	params.Validate()
	total := len(items)
	if params.PerPage == 0 {
		page := make([]T, total)
		copy(page, items)
		return page, NewPagination(1, total, int64(total))
	}

	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}
	page := make([]T, end-start)
	copy(page, items[start:end])
	return page, NewPagination(params.Page, params.PerPage, int64(total))
}
