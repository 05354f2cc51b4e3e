package pricing

// Money represents a monetary value stored in minor units (cents of Rand).
type Money = int64

// Role identifies the discount tier of the active session.
type Role string

// Known roles. Anything else is priced as a guest.
const (
	RoleBusiness Role = "business"
	RoleCustomer Role = "customer"
	RoleGuest    Role = "guest"
)

// rateBps maps roles to discount rates in basis points.
var rateBps = map[Role]int64{
	RoleBusiness: 2000,
	RoleCustomer: 1500,
	RoleGuest:    0,
}

// RateBps returns the discount rate for a role in basis points.
// Unrecognised or empty roles price as guest.
func RateBps(role Role) int64 {
	return rateBps[role]
}

// Item describes a line item used for totals calculation.
type Item struct {
	Qty       int
	UnitPrice Money
}

// Summary aggregates computed cart totals.
type Summary struct {
	Subtotal Money `json:"subtotal"`
	RateBps  int64 `json:"rateBps"`
	Discount Money `json:"discount"`
	Total    Money `json:"total"`
}

// Compute calculates cart totals for the given role. Pure and deterministic;
// an empty item list yields an all-zero summary.
func Compute(items []Item, role Role) Summary {
	var subtotal Money
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal += Money(it.Qty) * it.UnitPrice
	}
	bps := RateBps(role)
	discount := (subtotal * bps) / 10000
	return Summary{
		Subtotal: subtotal,
		RateBps:  bps,
		Discount: discount,
		Total:    subtotal - discount,
	}
}
