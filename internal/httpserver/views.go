package httpserver

import (
	"demo-storefront/internal/cart"
	"demo-storefront/internal/catalog"
	"demo-storefront/internal/checkout"
	"demo-storefront/internal/domain"
	"demo-storefront/internal/format"
)

// productView is a catalog product plus the display values the storefront
// renders next to it.
type productView struct {
	domain.Product
	PriceFormatted    string `json:"priceFormatted"`
	OldPriceFormatted string `json:"oldPriceFormatted,omitempty"`
	CategoryLabel     string `json:"categoryLabel"`
	InStock           bool   `json:"inStock"`
}

func toProductView(p domain.Product) productView {
	v := productView{
		Product:        p,
		PriceFormatted: format.Price(p.Price),
		CategoryLabel:  p.Category.Label(),
		InStock:        p.InStock(),
	}
	if p.OldPrice != nil {
		v.OldPriceFormatted = format.Price(*p.OldPrice)
	}
	return v
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

type cartLineView struct {
	Product            productView `json:"product"`
	Quantity           int         `json:"quantity"`
	LineTotal          float64     `json:"lineTotal"`
	LineTotalFormatted string      `json:"lineTotalFormatted"`
}

type cartView struct {
	Items             []cartLineView `json:"items"`
	ItemCount         int            `json:"itemCount"`
	Subtotal          float64        `json:"subtotal"`
	SubtotalFormatted string         `json:"subtotalFormatted"`
	Shipping          float64        `json:"shipping"`
	ShippingFormatted string         `json:"shippingFormatted"`
	Total             float64        `json:"total"`
	TotalFormatted    string         `json:"totalFormatted"`
	IsOpen            bool           `json:"isOpen"`
}

func toCartView(s cart.Snapshot) cartView {
	lines := make([]cartLineView, 0, len(s.Items))
	for _, it := range s.Items {
		lines = append(lines, cartLineView{
			Product:            toProductView(*it.Product),
			Quantity:           it.Quantity,
			LineTotal:          it.LineTotal(),
			LineTotalFormatted: format.Price(it.LineTotal()),
		})
	}
	return cartView{
		Items:             lines,
		ItemCount:         s.ItemCount,
		Subtotal:          s.Subtotal,
		SubtotalFormatted: format.Price(s.Subtotal),
		Shipping:          s.Shipping,
		ShippingFormatted: format.Price(s.Shipping),
		Total:             s.Total,
		TotalFormatted:    format.Price(s.Total),
		IsOpen:            s.IsOpen,
	}
}

type listingView struct {
	Page          int              `json:"page"`
	TotalPages    int              `json:"totalPages"`
	Total         int              `json:"total"`
	PriceBounds   catalog.Bounds   `json:"priceBounds"`
	ActiveFilters int              `json:"activeFilters"`
	Search        string           `json:"search"`
	Filters       catalog.Criteria `json:"filters"`
	Sort          catalog.SortKey  `json:"sort"`
	Results       []productView    `json:"results"`
}

func toListingView(res catalog.Result, bounds catalog.Bounds, search string, c catalog.Criteria, sort catalog.SortKey) listingView {
	return listingView{
		Page:          res.Page,
		TotalPages:    res.TotalPages,
		Total:         res.Total,
		PriceBounds:   bounds,
		ActiveFilters: catalog.CountActiveFilters(c),
		Search:        search,
		Filters:       c,
		Sort:          sort,
		Results:       toProductViews(res.Items),
	}
}

type receiptView struct {
	checkout.Receipt
	TotalFormatted string `json:"totalFormatted"`
}
