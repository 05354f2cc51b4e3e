// Package order turns a priced cart into the hand-off message sent to the
// store's WhatsApp number. Orders are not persisted; the message is the
// order.
package order

import (
	"net/http"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/agricart-api/internal/cart"
	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/pricing"
)

// CustomerDetails are the delivery fields the buyer fills in at checkout.
type CustomerDetails struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Address      string `json:"address" validate:"required"`
	DeliveryDate string `json:"deliveryDate" validate:"required,datetime=2006-01-02"`
}

// ValidateDetails rejects incomplete customer details before the cart is
// touched.
func ValidateDetails(v *validator.Validate, details CustomerDetails) error {
	if err := v.Struct(details); err != nil {
		return common.NewAppError("VALIDATION_ERROR", "incomplete customer details", http.StatusBadRequest, err)
	}
	return nil
}

// ComposeMessage renders the order text exactly as the store expects to read
// it: one line per cart item, the discounted totals, then the customer block.
func ComposeMessage(storeName string, items []cart.LineItem, summary pricing.Summary, details CustomerDetails) string {
	var b strings.Builder
	b.WriteString("Hi " + storeName + "! I'd like to place an order:\n\n")
	b.WriteString("*Order Details:*\n")
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.ProductName)
		b.WriteString(" (" + strings.ToUpper(item.VariantKey) + ") - ")
		b.WriteString(pricing.FormatRand(item.UnitPrice))
		b.WriteString(" × ")
		b.WriteString(strconv.Itoa(item.Quantity))
		b.WriteString(" = ")
		b.WriteString(pricing.FormatRand(item.LineTotal))
	}
	b.WriteString("\n\n*Subtotal: " + pricing.FormatRand(summary.Subtotal) + "*\n")
	b.WriteString("*Discount (" + pricing.FormatPercent(summary.RateBps) + "%): -" + pricing.FormatRand(summary.Discount) + "*\n")
	b.WriteString("*Final Total: " + pricing.FormatRand(summary.Total) + "*\n\n")
	b.WriteString("*Customer Details:*\n")
	b.WriteString("Name: " + details.Name + "\n")
	b.WriteString("Phone: " + details.Phone + "\n")
	b.WriteString("Address: " + details.Address + "\n")
	b.WriteString("Delivery Date: " + details.DeliveryDate)
	return b.String()
}
