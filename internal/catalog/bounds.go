package catalog

import "demo-storefront/internal/domain"

// Bounds is a closed price interval.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PriceBounds scans the catalog once for its lowest and highest price.
// An empty catalog yields {0, 0}.
func PriceBounds(products []domain.Product) Bounds {
	if len(products) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: products[0].Price, Max: products[0].Price}
	for _, p := range products[1:] {
		b.Min = min(b.Min, p.Price)
		b.Max = max(b.Max, p.Price)
	}
	return b
}

// DefaultCriteria matches the whole catalog.
func DefaultCriteria(products []domain.Product) Criteria {
	b := PriceBounds(products)
	return Criteria{
		Category: domain.CategoryAll,
		MinPrice: b.Min,
		MaxPrice: b.Max,
	}
}

// CountActiveFilters counts the filters worth a badge. Moving the price
// range does not count; only category and the in-stock toggle do.
func CountActiveFilters(c Criteria) int {
	n := 0
	if c.Category != domain.CategoryAll {
		n++
	}
	if c.InStockOnly {
		n++
	}
	return n
}

const (
	quickSearchIdle    = 6
	quickSearchResults = 8
)

// QuickSearch backs the search overlay: with no text it previews the first
// products of the catalog, otherwise it returns the first matches in catalog
// order.
func QuickSearch(products []domain.Product, search string) []domain.Product {
	needle := normalize(search)
	if needle == "" {
		return append([]domain.Product{}, products[:min(quickSearchIdle, len(products))]...)
	}
	out := []domain.Product{}
	for _, p := range products {
		if len(out) == quickSearchResults {
			break
		}
		if matchesSearch(p, needle) {
			out = append(out, p)
		}
	}
	return out
}
