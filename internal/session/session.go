// Package session resolves the active storefront session and its discount
// role. The core trusts whatever role the persisted session carries; it
// performs no authentication itself.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/agricart-api/internal/pricing"
	"github.com/noah-isme/agricart-api/internal/storage"
)

// Session is the persisted record of a signed-in user. Absent or malformed
// state resolves to the guest role.
type Session struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Name         string       `json:"name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Picture      string       `json:"picture,omitempty"`
	Role         pricing.Role `json:"role"`
	BusinessType string       `json:"businessType,omitempty"`
	AuthMethod   string       `json:"authMethod,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// DisplayName returns the banner name for a session.
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Username
}

// Service reads and writes the current-session record.
type Service struct {
	Store *storage.Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) key(sessionID string) string {
	return storage.PrefixKey(sessionID, storage.CurrentSessionKey)
}

// Current returns the persisted session record, reporting false for guests.
// Storage failures resolve to guest rather than erroring.
func (s *Service) Current(ctx context.Context, sessionID string) (Session, bool) {
	if s == nil || s.Store == nil || sessionID == "" {
		return Session{}, false
	}
	var sess Session
	ok, err := s.Store.GetJSON(ctx, s.key(sessionID), &sess)
	if err != nil || !ok || sess.Username == "" {
		return Session{}, false
	}
	return sess, true
}

// Role resolves the discount role for a session, defaulting to guest.
func (s *Service) Role(ctx context.Context, sessionID string) pricing.Role {
	sess, ok := s.Current(ctx, sessionID)
	if !ok || sess.Role == "" {
		return pricing.RoleGuest
	}
	return sess.Role
}

// Start persists a session record.
func (s *Service) Start(ctx context.Context, sessionID string, sess Session) error {
	if s == nil || s.Store == nil {
		return errors.New("session service not configured")
	}
	sess.ID = sessionID
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.now()
	}
	return s.Store.SetJSON(ctx, s.key(sessionID), sess)
}

// End removes the persisted session record.
func (s *Service) End(ctx context.Context, sessionID string) error {
	if s == nil || s.Store == nil {
		return errors.New("session service not configured")
	}
	return s.Store.Delete(ctx, s.key(sessionID))
}
