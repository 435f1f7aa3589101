package ledger

import (
	"slices"
	"strings"
)

// Default add-on price table, keyed by lowercase add-on name. Add-ons
// missing from both an item's own price map and this table cost
// fallbackAddOnPrice.
var defaultAddOnPrices = map[string]float64{
	"egg":       1.00,
	"vegetable": 2.00,
}

const fallbackAddOnPrice = 2.00

// LineItem is one confirmed menu customization. It is an immutable value;
// quantity changes go through WithQuantity, which returns a copy.
type LineItem struct {
	FoodName    string
	BasePrice   float64
	Quantity    int
	AddOns      []string
	Removals    []string
	AddOnPrices map[string]float64 // explicit per-item prices, nil ok
}

// NewLineItem builds a line item. Quantity is clamped to at least 1.
func NewLineItem(name string, basePrice float64, quantity int, addOns, removals []string, addOnPrices map[string]float64) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	return LineItem{
		FoodName:    name,
		BasePrice:   basePrice,
		Quantity:    quantity,
		AddOns:      slices.Clone(addOns),
		Removals:    slices.Clone(removals),
		AddOnPrices: addOnPrices,
	}
}

// WithQuantity returns a copy of the item with the given quantity,
// clamped to at least 1.
func (it LineItem) WithQuantity(quantity int) LineItem {
	if quantity < 1 {
		quantity = 1
	}
	out := it
	out.Quantity = quantity
	return out
}

// addOnPrice resolves the price of a single add-on: the item's own price
// map wins (case-sensitive, as stored), then the default table
// (case-insensitive), then the fallback.
func (it LineItem) addOnPrice(name string) float64 {
	if price, ok := it.AddOnPrices[name]; ok {
		return price
	}
	if price, ok := defaultAddOnPrices[strings.ToLower(name)]; ok {
		return price
	}
	return fallbackAddOnPrice
}

// TotalPrice is (base price + sum of add-on prices) × quantity.
func (it LineItem) TotalPrice() float64 {
	price := it.BasePrice
	for _, name := range it.AddOns {
		price += it.addOnPrice(name)
	}
	return roundCents(price * float64(it.Quantity))
}

// SameConfiguration reports whether two items are the same customization:
// equal name, base price, add-on set and removal set, order-insensitive.
// Callers use this to merge duplicate cart entries instead of listing
// them separately.
func SameConfiguration(a, b LineItem) bool {
	if a.FoodName != b.FoodName || a.BasePrice != b.BasePrice {
		return false
	}
	return slices.Equal(sorted(a.AddOns), sorted(b.AddOns)) &&
		slices.Equal(sorted(a.Removals), sorted(b.Removals))
}

func sorted(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
