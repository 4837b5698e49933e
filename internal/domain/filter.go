package domain

import (
	"cmp"
	"net/url"
	"slices"
	"strings"
)

// SortOrder controls listing order.
type SortOrder string

const (
	SortDefault   SortOrder = ""
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// Query parameter names.
const (
	ParamQuery    = "q"
	ParamCategory = "cat"
	ParamSort     = "sort"
)

// Filter is the listing state carried in the query string.
type Filter struct {
	Query      string    `json:"q"`
	Categories []string  `json:"categories"`
	Sort       SortOrder `json:"sort"`
}

// ParseFilter reads q, cat and sort. Values are taken verbatim, so a q of
// " " is a search for a space. cat is comma separated; empty and repeated
// entries are dropped. An unknown sort means default order.
func ParseFilter(v url.Values) Filter {
	f := Filter{
		Query:      v.Get(ParamQuery),
		Categories: []string{},
	}

	for _, c := range strings.Split(v.Get(ParamCategory), ",") {
		if c != "" && !slices.Contains(f.Categories, c) {
			f.Categories = append(f.Categories, c)
		}
	}

	switch s := SortOrder(v.Get(ParamSort)); s {
	case SortPriceAsc, SortPriceDesc:
		f.Sort = s
	}
	return f
}

// HasCategory reports whether c is selected.
func (f Filter) HasCategory(c string) bool {
	return slices.Contains(f.Categories, c)
}

// ToggleCategory returns a copy with c deselected if it was selected and
// appended otherwise.
func (f Filter) ToggleCategory(c string) Filter {
	out := f
	out.Categories = make([]string, 0, len(f.Categories)+1)
	found := false
	for _, existing := range f.Categories {
		if existing == c {
			found = true
			continue
		}
		out.Categories = append(out.Categories, existing)
	}
	if !found {
		out.Categories = append(out.Categories, c)
	}
	return out
}

// Clear returns a filter with no search, categories or sort.
func (f Filter) Clear() Filter {
	return Filter{Categories: []string{}}
}

// HasFilters reports whether anything deviates from the default listing.
func (f Filter) HasFilters() bool {
	return f.Query != "" || len(f.Categories) > 0 || f.Sort != SortDefault
}

// Values renders the filter as query parameters, omitting empty ones.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Query != "" {
		v.Set(ParamQuery, f.Query)
	}
	if len(f.Categories) > 0 {
		v.Set(ParamCategory, strings.Join(f.Categories, ","))
	}
	if f.Sort != SortDefault {
		v.Set(ParamSort, string(f.Sort))
	}
	return v
}

// Encode returns the canonical query string, "" for the default listing.
func (f Filter) Encode() string {
	return f.Values().Encode()
}

// Apply keeps products whose title contains the query, case-insensitively,
// then orders them by price when a price sort is set. Ties keep their input
// order. The input slice is not modified.
func Apply(products []Product, f Filter) []Product {
	q := strings.ToLower(f.Query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q == "" || strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Price, a.Price) })
	}
	return out
}

// Dedupe drops repeated product ids, keeping the first occurrence in place.
func Dedupe(products []Product) []Product {
	seen := make(map[int]struct{}, len(products))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
