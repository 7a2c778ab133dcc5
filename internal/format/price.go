// Package format renders values for storefront payloads.
package format

import (
	"math"
	"strconv"
	"strings"
)

// CurrencySymbol is the lari sign appended to prices.
const CurrencySymbol = "₾"

// Price renders amount as "1 234,56 ₾": two decimals, a space between
// thousands and a comma before the fraction. Non-finite amounts render as
// zero.
func Price(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0,00 " + CurrencySymbol
	}
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	fixed := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + group(whole) + "," + frac + " " + CurrencySymbol
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
