package catalog

import (
	"testing"

	"demo-storefront/internal/domain"
)

func TestListing_ChangesResetPage(t *testing.T) {
	products := fixture()
	l := NewListing(products)

	steps := []struct {
		name   string
		change func()
	}{
		{"search", func() { l.SetSearch("oak") }},
		{"filters", func() { l.SetFilters(DefaultCriteria(products)) }},
		{"category", func() { l.SetCategory(domain.CategoryFurniture) }},
		{"sort", func() { l.SetSort(SortRating) }},
	}
	for _, step := range steps {
		l.SetPage(3)
		step.change()
		if got := l.State().Page; got != 1 {
			t.Fatalf("%s: expected page reset to 1, got %d", step.name, got)
		}
	}
}

func TestListing_SetPageKeepsFilters(t *testing.T) {
	l := NewListing(fixture())
	l.SetCategory(domain.CategoryFurniture)
	l.SetPage(2)
	st := l.State()
	if st.Page != 2 || st.Criteria.Category != domain.CategoryFurniture {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestListing_ResultClampsStalePage(t *testing.T) {
	products := fixture()
	l := NewListing(products)
	l.SetPage(3)
	if res := l.Result(products, 2); res.Page != 3 || len(res.Items) != 1 {
		t.Fatalf("unexpected page 3 result %+v", res)
	}
	l.SetPage(7)
	if res := l.Result(products, 2); res.Page != 3 {
		t.Fatalf("expected clamp to 3, got %d", res.Page)
	}
}

func TestListing_SetFiltersOrdersPriceBounds(t *testing.T) {
	l := NewListing(fixture())
	l.SetFilters(Criteria{Category: domain.CategoryAll, MinPrice: 500, MaxPrice: 100})
	c := l.State().Criteria
	if c.MinPrice != 100 || c.MaxPrice != 500 {
		t.Fatalf("expected swapped bounds, got %+v", c)
	}
}

func TestListing_UnknownSortStoredAsPopular(t *testing.T) {
	l := NewListing(fixture())
	l.SetSort("random")
	if got := l.State().Sort; got != SortPopular {
		t.Fatalf("expected popular, got %s", got)
	}
}
