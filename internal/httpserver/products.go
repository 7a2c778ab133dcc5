package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"demo-storefront/internal/catalog"
	"demo-storefront/internal/domain"
	productsvc "demo-storefront/internal/service/product"

	"github.com/gin-gonic/gin"
)

func (a *api) listProducts(c *gin.Context) {
	products, err := a.products.List(c.Request.Context())
	if err != nil {
		a.writeInternal(c, "list products", err)
		return
	}
	bounds := catalog.PriceBounds(products)
	criteria, err := parseCriteria(c, bounds)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}
	params := catalog.Params{
		Search:   c.Query("q"),
		Criteria: criteria,
		Sort:     catalog.ParseSort(c.Query("sort")),
		Page:     parsePage(c.Query("page")),
	}
	res := catalog.Query(products, params, a.pageSize)
	c.JSON(http.StatusOK, toListingView(res, bounds, params.Search, criteria, params.Sort))
}

// parseCriteria reads filter query parameters. Missing bounds default to the
// catalog's price range.
func parseCriteria(c *gin.Context, bounds catalog.Bounds) (catalog.Criteria, error) {
	criteria := catalog.Criteria{
		Category: domain.CategoryAll,
		MinPrice: bounds.Min,
		MaxPrice: bounds.Max,
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		criteria.Category = domain.Category(strings.ToLower(raw))
	}
	var err error
	if criteria.MinPrice, err = queryFloat(c, "minPrice", criteria.MinPrice); err != nil {
		return criteria, err
	}
	if criteria.MaxPrice, err = queryFloat(c, "maxPrice", criteria.MaxPrice); err != nil {
		return criteria, err
	}
	if criteria.MinPrice > criteria.MaxPrice {
		criteria.MinPrice, criteria.MaxPrice = criteria.MaxPrice, criteria.MinPrice
	}
	if raw := c.Query("inStock"); raw != "" {
		criteria.InStockOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return criteria, fmt.Errorf("inStock must be a boolean, got %q", raw)
		}
	}
	return criteria, nil
}

func queryFloat(c *gin.Context, key string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return v, nil
}

// parsePage never fails; the pipeline clamps whatever it gets.
func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return page
}

func (a *api) searchProducts(c *gin.Context) {
	products, err := a.products.List(c.Request.Context())
	if err != nil {
		a.writeInternal(c, "search products", err)
		return
	}
	results := catalog.QuickSearch(products, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"results": toProductViews(results)})
}

func (a *api) getProduct(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := a.products.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		a.writeLookupError(c, "get product", err)
		return
	}
	related, err := a.products.Related(ctx, p, productsvc.RelatedLimit)
	if err != nil {
		a.writeInternal(c, "related products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product": toProductView(*p),
		"related": toProductViews(related),
	})
}

func (a *api) listCategories(c *gin.Context) {
	cats, err := a.products.Categories(c.Request.Context())
	if err != nil {
		a.writeInternal(c, "list categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": cats})
}
