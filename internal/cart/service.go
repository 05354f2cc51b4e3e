package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/agricart-api/internal/catalog"
	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/storage"
)

// ErrNoSelection is returned when an add-to-cart call contributes no items.
var ErrNoSelection = errors.New("no variant selected")

// Service encapsulates cart domain operations. The cart is owned by one
// session; concurrent writers to the same session key race last-writer-wins.
type Service struct {
	Store   *storage.Store
	Catalog *catalog.Service
	Logger  zerolog.Logger
}

func (s *Service) key(sessionID string) string {
	return storage.PrefixKey(sessionID, storage.CartStateKey)
}

// Restore loads the cart from durable storage. A missing, malformed, or
// unreadable state yields an empty cart; restore never fails the caller.
func (s *Service) Restore(ctx context.Context, sessionID string) []LineItem {
	if s == nil || s.Store == nil {
		return nil
	}
	var items []LineItem
	if _, err := s.Store.GetJSON(ctx, s.key(sessionID), &items); err != nil {
		s.Logger.Warn().Err(err).Msg("cart restore failed, starting empty")
		return nil
	}
	return items
}

// AddSelection appends one line item per selected variant with a positive
// quantity and persists the cart. Size-based carts send a single entry;
// tier-based carts may buy several tiers in one call. A selection that
// contributes nothing fails with a validation error and leaves the cart
// untouched.
func (s *Service) AddSelection(ctx context.Context, sessionID string, productID int, selections map[string]int) ([]LineItem, error) {
	if s == nil || s.Store == nil || s.Catalog == nil {
		return nil, errors.New("cart service not configured")
	}
	product, err := s.Catalog.ByID(productID)
	if err != nil {
		return nil, err
	}

	var added []LineItem
	for _, key := range product.Scheme.Keys() {
		qty, ok := selections[key]
		if !ok || qty <= 0 {
			continue
		}
		price, ok := product.Scheme.Price(key)
		if !ok {
			return nil, common.ValidationError(fmt.Sprintf("unknown variant %q for %s", key, product.Name))
		}
		added = append(added, NewLineItem(product.Name, key, price, qty))
	}
	for key := range selections {
		if _, ok := product.Scheme.Price(key); !ok {
			return nil, common.ValidationError(fmt.Sprintf("unknown variant %q for %s", key, product.Name))
		}
	}
	if len(added) == 0 {
		return nil, common.NewAppError("VALIDATION_ERROR", "no variant selected", http.StatusBadRequest, ErrNoSelection)
	}

	items := append(s.Restore(ctx, sessionID), added...)
	if err := s.Store.SetJSON(ctx, s.key(sessionID), items); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return items, nil
}

// RemoveAt removes the line item at the given position. Out-of-range
// indices are ignored silently and the cart is left unchanged.
func (s *Service) RemoveAt(ctx context.Context, sessionID string, index int) ([]LineItem, error) {
	if s == nil || s.Store == nil {
		return nil, errors.New("cart service not configured")
	}
	items := s.Restore(ctx, sessionID)
	if index < 0 || index >= len(items) {
		return items, nil
	}
	items = append(items[:index], items[index+1:]...)
	if err := s.Store.SetJSON(ctx, s.key(sessionID), items); err != nil {
		return nil, fmt.Errorf("persist cart: %w", err)
	}
	return items, nil
}

// Clear empties the cart and persists the empty state. Called after a
// successful order hand-off and on logout.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	if err := s.Store.SetJSON(ctx, s.key(sessionID), []LineItem{}); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
