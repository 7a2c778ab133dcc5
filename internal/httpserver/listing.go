package httpserver

import (
	"net/http"
	"strings"

	"demo-storefront/internal/catalog"
	"demo-storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

// updateListingRequest changes the session's listing. Omitted fields keep
// their value. Any change other than page sends the listing back to
// page 1; an explicit page is applied after the other changes.
type updateListingRequest struct {
	Search      *string  `json:"search"`
	Category    *string  `json:"category"`
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`
	InStockOnly *bool    `json:"inStockOnly"`
	Sort        *string  `json:"sort"`
	Page        *int     `json:"page"`
}

func (a *api) getListing(c *gin.Context) {
	a.respondListing(c, currentSession(c).Listing)
}

func (a *api) updateListing(c *gin.Context) {
	listing := currentSession(c).Listing

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	if req.Search != nil {
		listing.SetSearch(*req.Search)
	}
	if req.MinPrice != nil || req.MaxPrice != nil || req.InStockOnly != nil {
		criteria := listing.State().Criteria
		if req.Category != nil {
			criteria.Category = parseCategory(*req.Category)
		}
		if req.MinPrice != nil {
			criteria.MinPrice = *req.MinPrice
		}
		if req.MaxPrice != nil {
			criteria.MaxPrice = *req.MaxPrice
		}
		if req.InStockOnly != nil {
			criteria.InStockOnly = *req.InStockOnly
		}
		listing.SetFilters(criteria)
	} else if req.Category != nil {
		listing.SetCategory(parseCategory(*req.Category))
	}
	if req.Sort != nil {
		listing.SetSort(catalog.SortKey(*req.Sort))
	}
	if req.Page != nil {
		listing.SetPage(*req.Page)
	}
	a.respondListing(c, listing)
}

func parseCategory(raw string) domain.Category {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return domain.CategoryAll
	}
	return domain.Category(raw)
}

func (a *api) respondListing(c *gin.Context, listing *catalog.Listing) {
	products, err := a.products.List(c.Request.Context())
	if err != nil {
		a.writeInternal(c, "listing", err)
		return
	}
	st := listing.State()
	res := listing.Result(products, a.pageSize)
	c.JSON(http.StatusOK, toListingView(res, catalog.PriceBounds(products), st.Search, st.Criteria, st.Sort))
}
