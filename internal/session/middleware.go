package session

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/agricart-api/internal/common"
)

// CookieName carries the opaque session identifier between requests.
const CookieName = "agricart_sid"

// Middleware resolves the session identifier from cookie or header, minting
// a fresh one for first-time visitors, and attaches it to the context.
type Middleware struct {
	CookieSecure bool
}

// Resolve implements chi middleware.
func (m Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if cookie, err := r.Cookie(CookieName); err == nil {
			sid = strings.TrimSpace(cookie.Value)
		}
		if sid == "" {
			sid = strings.TrimSpace(r.Header.Get("X-Session-ID"))
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(common.WithSessionID(r.Context(), sid)))
	})
}
