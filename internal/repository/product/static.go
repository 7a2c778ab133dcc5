package product

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"demo-storefront/internal/domain"
)

//go:embed data/products.json
var datasetJSON []byte

// Dataset decodes the bundled catalog.
func Dataset() ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(datasetJSON, &products); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if err := Validate(products); err != nil {
		return nil, err
	}
	return products, nil
}

// Validate checks the catalog rules every source must satisfy.
func Validate(products []domain.Product) error {
	ids := make(map[string]bool, len(products))
	slugs := make(map[string]bool, len(products))
	for i, p := range products {
		switch {
		case p.ID == "" || p.Slug == "":
			return fmt.Errorf("product %d: id and slug required", i)
		case ids[p.ID]:
			return fmt.Errorf("product %s: duplicate id", p.ID)
		case slugs[p.Slug]:
			return fmt.Errorf("product %s: duplicate slug %s", p.ID, p.Slug)
		case !p.Category.Valid():
			return fmt.Errorf("product %s: unknown category %q", p.ID, p.Category)
		case p.Price < 0 || p.Stock < 0 || p.ReviewsCount < 0:
			return fmt.Errorf("product %s: negative price, stock or reviews", p.ID)
		case p.Rating < 0 || p.Rating > 5:
			return fmt.Errorf("product %s: rating %v outside 0..5", p.ID, p.Rating)
		}
		ids[p.ID] = true
		slugs[p.Slug] = true
	}
	return nil
}

// Static serves a fixed in-memory catalog.
type Static struct {
	products []domain.Product
	byID     map[string]int
	bySlug   map[string]int
}

// NewStatic serves the bundled dataset.
func NewStatic() (*Static, error) {
	products, err := Dataset()
	if err != nil {
		return nil, err
	}
	return NewStaticFrom(products), nil
}

// NewStaticFrom serves products in the given order.
func NewStaticFrom(products []domain.Product) *Static {
	s := &Static{
		products: slices.Clone(products),
		byID:     make(map[string]int, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}
	for i, p := range s.products {
		s.byID[p.ID] = i
		s.bySlug[p.Slug] = i
	}
	return s
}

func (s *Static) List(_ context.Context) ([]domain.Product, error) {
	return slices.Clone(s.products), nil
}

func (s *Static) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s.products[i], nil
}

func (s *Static) GetByID(_ context.Context, id string) (*domain.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s.products[i], nil
}
