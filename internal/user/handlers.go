package user

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/agricart-api/internal/cart"
	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/events"
	"github.com/noah-isme/agricart-api/internal/pricing"
	"github.com/noah-isme/agricart-api/internal/session"
)

// Handler exposes the account and sign-in endpoints. Register and the
// sign-in variants all persist a session record so the storefront can show
// the signed-in banner immediately.
type Handler struct {
	Svc      *Service
	Sessions *session.Service
	Cart     *cart.Service
	Bus      *events.Bus
	Logger   zerolog.Logger
}

type sessionView struct {
	Username    string `json:"username"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Picture     string `json:"picture,omitempty"`
	Role        string `json:"role"`
	AuthMethod  string `json:"authMethod,omitempty"`
	DiscountPct string `json:"discountPct"`
}

func viewOf(sess session.Session) sessionView {
	return sessionView{
		Username:    sess.Username,
		Name:        sess.DisplayName(),
		Email:       sess.Email,
		Picture:     sess.Picture,
		Role:        string(sess.Role),
		AuthMethod:  sess.AuthMethod,
		DiscountPct: pricing.FormatPercent(pricing.RateBps(sess.Role)),
	}
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, account Account, status int) {
	sid, _ := common.SessionID(r.Context())
	sess := session.Session{
		Username:     account.Username,
		Name:         account.Name,
		Email:        account.Email,
		Picture:      account.Picture,
		Role:         account.Role,
		BusinessType: account.BusinessType,
		AuthMethod:   account.AuthMethod,
	}
	if err := h.Sessions.Start(r.Context(), sid, sess); err != nil {
		common.WriteError(w, err)
		return
	}
	if h.Bus != nil {
		if err := h.Bus.Emit(r.Context(), events.TopicSessionStarted, sid, map[string]any{"username": account.Username, "role": string(account.Role)}); err != nil {
			h.Logger.Warn().Err(err).Msg("emit session.started")
		}
	}
	common.JSON(w, status, map[string]any{"data": viewOf(sess)})
}

// Register creates an account and signs the new user in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	account, err := h.Svc.Register(r.Context(), input)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.startSession(w, r, account, http.StatusCreated)
}

// Login verifies credentials and persists the session record.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	account, err := h.Svc.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.startSession(w, r, account, http.StatusOK)
}

// Google signs a user in from an externally issued identity token,
// provisioning an account on first sight.
func (h *Handler) Google(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	claims, err := session.DecodeIdentity(input.Credential)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	account, err := h.Svc.FederatedSignIn(r.Context(), claims)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	h.startSession(w, r, account, http.StatusOK)
}

// Logout ends the session and discards the session's cart.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sid, _ := common.SessionID(r.Context())
	if err := h.Sessions.End(r.Context(), sid); err != nil {
		common.WriteError(w, err)
		return
	}
	if h.Cart != nil {
		if err := h.Cart.Clear(r.Context(), sid); err != nil {
			h.Logger.Warn().Err(err).Str("session_id", sid).Msg("clear cart on logout")
		}
	}
	if h.Bus != nil {
		if err := h.Bus.Emit(r.Context(), events.TopicSessionEnded, sid, nil); err != nil {
			h.Logger.Warn().Err(err).Msg("emit session.ended")
		}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"loggedOut": true}})
}

// Me reports the signed-in user, or the guest role when nobody is.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sid, _ := common.SessionID(r.Context())
	sess, ok := h.Sessions.Current(r.Context(), sid)
	if !ok {
		common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"role":        string(pricing.RoleGuest),
			"discountPct": pricing.FormatPercent(0),
		}})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": viewOf(sess)})
}
