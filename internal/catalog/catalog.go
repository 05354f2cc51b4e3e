// Package catalog holds the fixed product list served by the storefront.
// A deployment runs one of two variant schemes: size-based (xs..xl) or
// quality-tier based (good..premium). Every product in a catalog exposes
// the same variant key set.
package catalog

import "github.com/noah-isme/agricart-api/internal/pricing"

// SchemeKind tags the variant shape of a catalog.
type SchemeKind string

// Supported schemes.
const (
	SchemeSizes SchemeKind = "sizes"
	SchemeTiers SchemeKind = "tiers"
)

// SizeKeys lists size variant keys in display order.
var SizeKeys = []string{"xs", "s", "m", "l", "xl"}

// TierKeys lists quality-tier variant keys in display order. Tiers are an
// unordered set for purchasing purposes; the order here is display only.
var TierKeys = []string{"good", "better", "best", "premium"}

// Scheme is the tagged variant mapping of one product.
type Scheme struct {
	Kind   SchemeKind               `json:"kind"`
	Prices map[string]pricing.Money `json:"prices"`
}

// Keys returns the scheme's variant keys in display order.
func (s Scheme) Keys() []string {
	if s.Kind == SchemeTiers {
		return TierKeys
	}
	return SizeKeys
}

// Price looks up the unit price for a variant key.
func (s Scheme) Price(key string) (pricing.Money, bool) {
	p, ok := s.Prices[key]
	return p, ok
}

// Product is one catalog entry.
type Product struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageRef string `json:"imageRef"`
	Scheme   Scheme `json:"scheme"`
}
