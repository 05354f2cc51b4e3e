package order

import (
	"context"
	"errors"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/agricart-api/internal/cart"
	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/events"
	"github.com/noah-isme/agricart-api/internal/obs"
	"github.com/noah-isme/agricart-api/internal/pricing"
	"github.com/noah-isme/agricart-api/internal/session"
)

// Receipt is everything the storefront needs after a successful hand-off.
type Receipt struct {
	HandoffURL string          `json:"handoffUrl"`
	Message    string          `json:"message"`
	Totals     pricing.Summary `json:"totals"`
	Role       pricing.Role    `json:"role"`
}

// Service assembles the order message from the session's cart and hands it
// off. The cart is cleared only after the message is composed.
type Service struct {
	Cart      *cart.Service
	Sessions  *session.Service
	Validate  *validator.Validate
	Bus       *events.Bus
	Logger    zerolog.Logger
	StoreName string
	Endpoint  string
	Recipient string
}

// Submit validates the customer details, prices the cart for the session's
// role and produces the hand-off receipt. Validation failures leave the
// cart untouched.
func (s *Service) Submit(ctx context.Context, sessionID string, details CustomerDetails) (Receipt, error) {
	if s == nil || s.Cart == nil || s.Sessions == nil || s.Validate == nil {
		return Receipt{}, errors.New("order service not configured")
	}
	role := s.Sessions.Role(ctx, sessionID)
	if err := ValidateDetails(s.Validate, details); err != nil {
		s.countSubmit(role, "invalid_details")
		return Receipt{}, err
	}
	items := s.Cart.Restore(ctx, sessionID)
	if len(items) == 0 {
		s.countSubmit(role, "empty_cart")
		return Receipt{}, common.ValidationError("cart is empty")
	}

	summary := pricing.Compute(cart.PricingItems(items), role)
	message := ComposeMessage(s.StoreName, items, summary, details)
	receipt := Receipt{
		HandoffURL: HandoffURL(s.Endpoint, s.Recipient, message),
		Message:    message,
		Totals:     summary,
		Role:       role,
	}

	// The hand-off is the point of no return; a failed clear only leaves a
	// stale cart behind.
	if err := s.Cart.Clear(ctx, sessionID); err != nil {
		s.Logger.Warn().Err(err).Str("session_id", sessionID).Msg("clear cart after hand-off")
	}
	if s.Bus != nil {
		payload := map[string]any{
			"itemCount": len(items),
			"subtotal":  summary.Subtotal,
			"total":     summary.Total,
			"role":      string(role),
		}
		if err := s.Bus.Emit(ctx, events.TopicOrderSubmitted, sessionID, payload); err != nil {
			s.Logger.Warn().Err(err).Msg("emit order.submitted")
		}
	}
	s.countSubmit(role, "ok")
	return receipt, nil
}

func (s *Service) countSubmit(role pricing.Role, result string) {
	if obs.OrdersSubmittedTotal != nil {
		obs.OrdersSubmittedTotal.WithLabelValues(string(role), result).Inc()
	}
}
