package seed

import (
	"context"
	"fmt"

	productrepo "demo-storefront/internal/repository/product"
)

// Apply upserts the bundled catalog at its dataset positions. Running it
// again updates rows in place.
func Apply(ctx context.Context, w productrepo.Writer) (int, error) {
	products, err := productrepo.Dataset()
	if err != nil {
		return 0, fmt.Errorf("load dataset: %w", err)
	}
	for i, p := range products {
		if err := w.Upsert(ctx, i, p); err != nil {
			return i, fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	return len(products), nil
}
