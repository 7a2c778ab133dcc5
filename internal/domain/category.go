package domain

// Category is the closed set of catalog categories.
type Category string

const (
	CategoryFurniture   Category = "furniture"
	CategoryElectronics Category = "electronics"
	CategoryDesign      Category = "design"
	CategoryAccessories Category = "accessories"

	// CategoryAll is the filter value that matches every category. It is
	// never assigned to a product.
	CategoryAll Category = "all"
)

// Categories lists the catalog categories in display order.
var Categories = []Category{
	CategoryFurniture,
	CategoryElectronics,
	CategoryDesign,
	CategoryAccessories,
}

var categoryLabels = map[Category]string{
	CategoryFurniture:   "ავეჯი",
	CategoryElectronics: "ელექტრონიკა",
	CategoryDesign:      "დისაინი",
	CategoryAccessories: "აქსესუარები",
	CategoryAll:         "ყველა",
}

// Valid reports whether c is a member of the catalog enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryFurniture, CategoryElectronics, CategoryDesign, CategoryAccessories:
		return true
	}
	return false
}

// Label returns the storefront display name, or the raw value when unknown.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}
