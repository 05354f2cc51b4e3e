package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/obs"
	"github.com/noah-isme/agricart-api/internal/pricing"
)

// RoleResolver supplies the active discount role for a session.
type RoleResolver interface {
	Role(ctx context.Context, sessionID string) pricing.Role
}

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc   *Service
	Roles RoleResolver
}

// Get returns cart contents plus totals computed for the session role.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	sid, _ := common.SessionID(r.Context())
	items := h.Svc.Restore(r.Context(), sid)
	h.render(w, r.Context(), sid, items)
}

// AddItem performs an add-to-cart action. The payload carries either a
// single variant/qty pair (size catalogs) or a selections map (tier
// catalogs buying several tiers at once).
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	var payload struct {
		ProductID  int            `json:"productId"`
		Variant    string         `json:"variant"`
		Qty        int            `json:"qty"`
		Selections map[string]int `json:"selections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if payload.ProductID <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	selections := payload.Selections
	if len(selections) == 0 && payload.Variant != "" {
		selections = map[string]int{payload.Variant: payload.Qty}
	}

	sid, _ := common.SessionID(r.Context())
	items, err := h.Svc.AddSelection(r.Context(), sid, payload.ProductID, selections)
	obs.CountCartMutation("add", err)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.render(w, r.Context(), sid, items)
}

// RemoveItem removes the line item at the given position. Out-of-range
// positions are a no-op, not an error.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid index", nil)
		return
	}
	sid, _ := common.SessionID(r.Context())
	items, err := h.Svc.RemoveAt(r.Context(), sid, index)
	obs.CountCartMutation("remove", err)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.render(w, r.Context(), sid, items)
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart service not configured", nil)
		return
	}
	sid, _ := common.SessionID(r.Context())
	err := h.Svc.Clear(r.Context(), sid)
	obs.CountCartMutation("clear", err)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.render(w, r.Context(), sid, nil)
}

func (h *Handler) render(w http.ResponseWriter, ctx context.Context, sid string, items []LineItem) {
	role := pricing.RoleGuest
	if h.Roles != nil {
		role = h.Roles.Role(ctx, sid)
	}
	summary := pricing.Compute(PricingItems(items), role)
	if items == nil {
		items = []LineItem{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"items":         items,
			"totalQuantity": TotalQuantity(items),
			"totals": map[string]any{
				"subtotal":       summary.Subtotal,
				"discountBps":    summary.RateBps,
				"discountAmount": summary.Discount,
				"finalTotal":     summary.Total,
			},
			"role": role,
		},
	})
}
