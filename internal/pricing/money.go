package pricing

import "fmt"

// FormatRand renders a minor-unit amount as the display string used across
// the storefront, e.g. 6500 -> "R65.00". Rounding happens only here.
func FormatRand(m Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%sR%d.%02d", sign, m/100, m%100)
}

// FormatPercent renders a basis-point rate as a whole percentage, e.g. 2000 -> "20".
func FormatPercent(bps int64) string {
	return fmt.Sprintf("%d", bps/100)
}
