package domain

import "time"

// Product is a catalog entry. The core never mutates it; carts and listings
// only hold references to it.
type Product struct {
	ID               string            `json:"id"`
	Slug             string            `json:"slug"`
	Title            string            `json:"title"`
	Price            float64           `json:"price"`
	OldPrice         *float64          `json:"oldPrice,omitempty"`
	Currency         string            `json:"currency"`
	Images           []string          `json:"images"`
	Category         Category          `json:"category"`
	Tags             []string          `json:"tags"`
	Rating           float64           `json:"rating"`
	ReviewsCount     int               `json:"reviewsCount"`
	Stock            int               `json:"stock"`
	ShortDescription string            `json:"shortDescription"`
	Description      string            `json:"description"`
	Features         []string          `json:"features,omitempty"`
	Specs            map[string]string `json:"specs,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// InStock reports whether the product can be added to a cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Currency used by the storefront. Multi-currency is not supported.
const CurrencyGEL = "GEL"
