package pagination

import (
	"math"
	"net/url"
	"strconv"
)

// MaxPerPage caps per_page regardless of what the client asks for.
const MaxPerPage = 100

// MaxPage keeps the offset computation from overflowing.
const MaxPage = math.MaxInt / MaxPerPage

// Params holds pagination parameters extracted from a query string.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns page 1 of 20.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: 20}
}

// FromQuery reads page and per_page, ignoring invalid values.
func FromQuery(q url.Values) Params {
	p := DefaultParams()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = min(v, MaxPage)
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Bounds returns the [start, end) slice window for a list of total items.
func (p Params) Bounds(total int) (int, int) {
	start := max(p.Offset, 0)
	if start > total {
		start = total
	}
	end := start + p.PerPage
	if end > total {
		end = total
	}
	return start, end
}

// Result is a page of T with its position in the full list.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Paginate cuts the requested page out of all.
func Paginate[T any](all []T, params Params) Result[T] {
	start, end := params.Bounds(len(all))
	page := make([]T, end-start)
	copy(page, all[start:end])
	return NewResult(page, len(all), params)
}

// NewResult builds a Result around an already-cut page.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	totalPages := totalCount / params.PerPage
	if totalCount%params.PerPage > 0 {
		totalPages++
	}
	if data == nil {
		data = []T{}
	}

	return Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
