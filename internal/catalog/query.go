// Package catalog implements the product listing pipeline: filter, search,
// sort and paginate. Every function here is pure; inputs are never mutated.
package catalog

import (
	"slices"
	"strings"

	"demo-storefront/internal/domain"

	"golang.org/x/text/cases"
)

// DefaultPageSize is the number of products per listing page.
const DefaultPageSize = 8

// SortKey selects the listing order.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortRating    SortKey = "rating"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// SortKeys lists the supported orderings in display order.
var SortKeys = []SortKey{SortPopular, SortRating, SortPriceAsc, SortPriceDesc}

// ParseSort maps a raw value to a known SortKey, falling back to popular.
func ParseSort(raw string) SortKey {
	switch k := SortKey(strings.TrimSpace(raw)); k {
	case SortPopular, SortRating, SortPriceAsc, SortPriceDesc:
		return k
	}
	return SortPopular
}

// Criteria are the listing filters.
type Criteria struct {
	Category    domain.Category `json:"category"`
	MinPrice    float64         `json:"minPrice"`
	MaxPrice    float64         `json:"maxPrice"`
	InStockOnly bool            `json:"inStockOnly"`
}

// Params is the full input of a listing query.
type Params struct {
	Search   string
	Criteria Criteria
	Sort     SortKey
	Page     int
}

// Result is one page of a listing query.
type Result struct {
	Items      []domain.Product `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Total      int              `json:"total"`
}

// Query runs filter, sort and pagination over products. A non-positive
// pageSize falls back to DefaultPageSize.
func Query(products []domain.Product, p Params, pageSize int) Result {
	matched := Filter(products, p.Criteria, p.Search)
	Sort(matched, p.Sort)
	return Paginate(matched, p.Page, pageSize)
}

// Filter returns the products passing every criterion and the search text,
// in catalog order. The result never aliases products.
func Filter(products []domain.Product, c Criteria, search string) []domain.Product {
	needle := normalize(search)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, c, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p domain.Product, c Criteria, needle string) bool {
	if c.Category != domain.CategoryAll && p.Category != c.Category {
		return false
	}
	if p.Price < c.MinPrice || p.Price > c.MaxPrice {
		return false
	}
	if c.InStockOnly && p.Stock <= 0 {
		return false
	}
	return matchesSearch(p, needle)
}

// matchesSearch expects needle already normalized; empty matches everything.
func matchesSearch(p domain.Product, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(haystack(p), needle)
}

func haystack(p domain.Product) string {
	parts := []string{p.Title, p.ShortDescription, p.Description, strings.Join(p.Tags, " ")}
	return fold(strings.Join(parts, " "))
}

func normalize(search string) string {
	return fold(strings.TrimSpace(search))
}

// cases.Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Sort orders products in place by key using a stable sort, so products
// with equal keys keep their relative order. Unknown keys sort as popular.
func Sort(products []domain.Product, key SortKey) {
	slices.SortStableFunc(products, comparator(ParseSort(string(key))))
}

// Sorted returns a sorted copy of products.
func Sorted(products []domain.Product, key SortKey) []domain.Product {
	out := slices.Clone(products)
	Sort(out, key)
	return out
}

func comparator(key SortKey) func(a, b domain.Product) int {
	switch key {
	case SortPriceAsc:
		return func(a, b domain.Product) int { return cmpFloat(a.Price, b.Price) }
	case SortPriceDesc:
		return func(a, b domain.Product) int { return cmpFloat(b.Price, a.Price) }
	case SortRating:
		return func(a, b domain.Product) int {
			if c := cmpFloat(b.Rating, a.Rating); c != 0 {
				return c
			}
			return b.ReviewsCount - a.ReviewsCount
		}
	default:
		return func(a, b domain.Product) int {
			if c := b.ReviewsCount - a.ReviewsCount; c != 0 {
				return c
			}
			return cmpFloat(b.Rating, a.Rating)
		}
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// TotalPages is max(1, ceil(count/pageSize)).
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage bounds page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate slices an already ordered list. Out-of-range pages are clamped.
func Paginate(products []domain.Product, page, pageSize int) Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(products)
	pages := TotalPages(total, pageSize)
	page = ClampPage(page, pages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	items := []domain.Product{}
	if start < total {
		items = slices.Clone(products[start:end])
	}
	return Result{
		Items:      items,
		Page:       page,
		TotalPages: pages,
		Total:      total,
	}
}
