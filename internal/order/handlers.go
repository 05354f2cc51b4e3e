package order

import (
	"encoding/json"
	"net/http"

	"github.com/noah-isme/agricart-api/internal/common"
)

// Handler exposes the order hand-off endpoint.
type Handler struct {
	Svc *Service
}

// Submit handles POST /orders.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var details CustomerDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	sid, _ := common.SessionID(r.Context())
	receipt, err := h.Svc.Submit(r.Context(), sid, details)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": receipt})
}
