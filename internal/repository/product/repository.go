package product

import (
	"context"

	"demo-storefront/internal/domain"
)

// Repository reads the catalog. List returns products in catalog order,
// which is the order every listing falls back to on ties.
type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Writer stores products at a catalog position.
type Writer interface {
	Upsert(ctx context.Context, position int, p domain.Product) error
}
