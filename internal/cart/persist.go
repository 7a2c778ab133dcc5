package cart

import (
	"encoding/json"

	"demo-storefront/internal/domain"
)

type payload struct {
	Items []domain.CartItem `json:"items"`
}

// Encode serializes items into the stored cart format.
func Encode(items []domain.CartItem) (string, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	b, err := json.Marshal(payload{Items: items})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type storedEntry struct {
	Product  *domain.Product `json:"product"`
	Quantity *float64        `json:"quantity"`
}

// Decode rebuilds cart lines from a stored payload. It never fails: an
// unreadable payload is an empty cart and unreadable entries are skipped.
// Surviving entries are brought back within the cart rules: quantities are
// truncated and clamped to stock, lines that cannot exist are dropped and
// repeated products are merged into their first line.
func Decode(raw string) []domain.CartItem {
	var envelope struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil
	}

	var items []domain.CartItem
	for _, rawEntry := range envelope.Items {
		var entry storedEntry
		if err := json.Unmarshal(rawEntry, &entry); err != nil {
			continue
		}
		p := entry.Product
		if p == nil || p.ID == "" || entry.Quantity == nil || p.Stock <= 0 {
			continue
		}
		q := *entry.Quantity
		if q < 1 {
			continue
		}
		qty := p.Stock
		if q < float64(p.Stock) {
			qty = int(q)
		}

		merged := false
		for i := range items {
			if items[i].Product.ID == p.ID {
				items[i].Quantity = min(items[i].Quantity+qty, items[i].Product.Stock)
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, domain.CartItem{Product: p, Quantity: qty})
		}
	}
	return items
}
