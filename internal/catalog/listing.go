package catalog

import (
	"sync"

	"demo-storefront/internal/domain"
)

// Listing is the browsing state behind one catalog view. Changing the
// search text, the filters or the sort order sends the view back to page 1
// so a page number from a larger result set never leaks into a smaller one.
type Listing struct {
	mu       sync.Mutex
	search   string
	criteria Criteria
	sort     SortKey
	page     int
}

// ListingState is a point-in-time copy of a Listing.
type ListingState struct {
	Search   string   `json:"search"`
	Criteria Criteria `json:"filters"`
	Sort     SortKey  `json:"sort"`
	Page     int      `json:"page"`
}

// NewListing starts a view over products with default filters.
func NewListing(products []domain.Product) *Listing {
	return &Listing{
		criteria: DefaultCriteria(products),
		sort:     SortPopular,
		page:     1,
	}
}

func (l *Listing) State() ListingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

func (l *Listing) stateLocked() ListingState {
	return ListingState{
		Search:   l.search,
		Criteria: l.criteria,
		Sort:     l.sort,
		Page:     l.page,
	}
}

func (l *Listing) SetSearch(search string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = search
	l.page = 1
}

func (l *Listing) SetFilters(c Criteria) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c.MinPrice > c.MaxPrice {
		c.MinPrice, c.MaxPrice = c.MaxPrice, c.MinPrice
	}
	l.criteria = c
	l.page = 1
}

func (l *Listing) SetCategory(category domain.Category) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.criteria.Category = category
	l.page = 1
}

func (l *Listing) SetSort(key SortKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sort = ParseSort(string(key))
	l.page = 1
}

// SetPage stores the requested page as is; clamping happens when the
// listing is evaluated against a result set.
func (l *Listing) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
}

// Result evaluates the listing over products.
func (l *Listing) Result(products []domain.Product, pageSize int) Result {
	st := l.State()
	return Query(products, Params{
		Search:   st.Search,
		Criteria: st.Criteria,
		Sort:     st.Sort,
		Page:     st.Page,
	}, pageSize)
}
