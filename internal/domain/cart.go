package domain

// CartItem is one line of a cart: a shared product reference plus a
// quantity kept within [1, Product.Stock].
type CartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// LineTotal is price times quantity for the line.
func (i CartItem) LineTotal() float64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.Price * float64(i.Quantity)
}
