package product

import (
	"context"

	"demo-storefront/internal/domain"
	productrepo "demo-storefront/internal/repository/product"
)

// RelatedLimit caps the related products shown on a product page.
const RelatedLimit = 4

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Related returns up to limit other products of p's category in catalog
// order. A non-positive limit uses RelatedLimit.
func (s *Service) Related(ctx context.Context, p *domain.Product, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = RelatedLimit
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	related := []domain.Product{}
	for _, candidate := range products {
		if len(related) == limit {
			break
		}
		if candidate.Category == p.Category && candidate.ID != p.ID {
			related = append(related, candidate)
		}
	}
	return related, nil
}

// CategoryCount is a category with its display label and product count.
type CategoryCount struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
}

// Categories counts products per category, in display order. Categories
// without products are included with a zero count.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, p := range products {
		counts[p.Category]++
	}
	out := make([]CategoryCount, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, CategoryCount{Category: c, Label: c.Label(), Count: counts[c]})
	}
	return out, nil
}
