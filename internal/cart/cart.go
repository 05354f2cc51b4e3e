// Package cart implements the per-session shopping cart: an ordered list of
// priced line items persisted to the key-value store after every mutation.
package cart

import "github.com/noah-isme/agricart-api/internal/pricing"

// LineItem is one priced, quantified entry in the cart. LineTotal is fixed
// at construction; items are immutable once appended and are removed only
// wholesale by position. Adding the same product and variant twice yields
// two separate entries.
type LineItem struct {
	ProductName string        `json:"productName"`
	VariantKey  string        `json:"variantKey"`
	UnitPrice   pricing.Money `json:"unitPrice"`
	Quantity    int           `json:"quantity"`
	LineTotal   pricing.Money `json:"lineTotal"`
}

// NewLineItem constructs a line item with its total computed.
func NewLineItem(productName, variantKey string, unitPrice pricing.Money, qty int) LineItem {
	return LineItem{
		ProductName: productName,
		VariantKey:  variantKey,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		LineTotal:   unitPrice * pricing.Money(qty),
	}
}

// TotalQuantity sums units across all line items (the badge count).
func TotalQuantity(items []LineItem) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// PricingItems converts line items for the pricing engine.
func PricingItems(items []LineItem) []pricing.Item {
	out := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		out = append(out, pricing.Item{Qty: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}
