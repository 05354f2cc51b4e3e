package catalog

import "github.com/noah-isme/agricart-api/internal/pricing"

// seedEntry carries the size prices in whole Rand; minor units are derived.
type seedEntry struct {
	id    int
	name  string
	image string
	xs    int64
	s     int64
	m     int64
	l     int64
	xl    int64
}

var seed = []seedEntry{
	{1, "Bananas", "images/bananas.jpg", 45, 55, 65, 85, 105},
	{2, "Apples", "images/apples.jpg", 60, 75, 90, 120, 150},
	{3, "Oranges", "images/oranges.jpg", 50, 65, 80, 110, 140},
	{4, "Mangoes", "images/mangoes.jpg", 70, 90, 110, 150, 190},
	{5, "Pears", "images/pear.jpg", 55, 70, 85, 115, 145},
	{6, "Grapes", "images/grapes.jpg", 65, 80, 100, 140, 180},
	{7, "Pineapples", "images/pinaples.jpg", 80, 100, 120, 160, 200},
	{8, "Avocados", "images/avocados.jpg", 75, 95, 115, 155, 195},
	{9, "Strawberries", "images/strawberies.jpg", 85, 105, 125, 165, 205},
	{10, "Blueberries", "images/bleuberries.jpg", 95, 115, 135, 175, 215},
	{11, "Kiwis", "images/kiwi.jpg", 70, 85, 100, 130, 160},
	{12, "Watermelons", "images/watermelon.jpg", 120, 150, 180, 230, 280},
	{13, "Papayas", "images/papayas.jpg", 60, 75, 90, 120, 150},
	{14, "Lemons", "images/lemon.jpg", 40, 50, 60, 80, 100},
	{15, "Limes", "images/lime.jpg", 40, 50, 60, 80, 100},
}

func rand(whole int64) pricing.Money { return pricing.Money(whole * 100) }

// SeedProducts builds the catalog for the requested scheme kind. The tier
// catalog reuses the size price ladder: good/better/best/premium correspond
// to the xs/s/m/l price points.
func SeedProducts(kind SchemeKind) []Product {
	products := make([]Product, 0, len(seed))
	for _, e := range seed {
		var scheme Scheme
		switch kind {
		case SchemeTiers:
			scheme = Scheme{Kind: SchemeTiers, Prices: map[string]pricing.Money{
				"good":    rand(e.xs),
				"better":  rand(e.s),
				"best":    rand(e.m),
				"premium": rand(e.l),
			}}
		default:
			scheme = Scheme{Kind: SchemeSizes, Prices: map[string]pricing.Money{
				"xs": rand(e.xs),
				"s":  rand(e.s),
				"m":  rand(e.m),
				"l":  rand(e.l),
				"xl": rand(e.xl),
			}}
		}
		products = append(products, Product{
			ID:       e.id,
			Name:     e.name,
			ImageRef: e.image,
			Scheme:   scheme,
		})
	}
	return products
}
