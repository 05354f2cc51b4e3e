package order_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	validator "github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/agricart-api/internal/cart"
	"github.com/noah-isme/agricart-api/internal/catalog"
	"github.com/noah-isme/agricart-api/internal/common"
	"github.com/noah-isme/agricart-api/internal/events"
	"github.com/noah-isme/agricart-api/internal/order"
	"github.com/noah-isme/agricart-api/internal/pricing"
	"github.com/noah-isme/agricart-api/internal/session"
	"github.com/noah-isme/agricart-api/internal/storage"
)

type captureNotifier struct {
	events []events.Event
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

type fixture struct {
	svc      *order.Service
	cart     *cart.Service
	sessions *session.Service
	notifier *captureNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := storage.NewStore(client, zerolog.Nop(), time.Hour)
	cartSvc := &cart.Service{Store: store, Catalog: catalog.NewService(catalog.SchemeSizes), Logger: zerolog.Nop()}
	sessions := &session.Service{Store: store}
	notifier := &captureNotifier{}
	svc := &order.Service{
		Cart:      cartSvc,
		Sessions:  sessions,
		Validate:  validator.New(),
		Bus:       &events.Bus{Notifiers: []events.Notifier{notifier}},
		Logger:    zerolog.Nop(),
		StoreName: "Agricart",
		Endpoint:  "wa.me",
		Recipient: "27720494067",
	}
	return fixture{svc: svc, cart: cartSvc, sessions: sessions, notifier: notifier}
}

func validDetails() order.CustomerDetails {
	return order.CustomerDetails{
		Name:         "Thabo",
		Phone:        "0821234567",
		Address:      "12 Main Rd",
		DeliveryDate: "2025-03-05",
	}
}

func TestSubmitBusinessOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.sessions.Start(ctx, "sess-1", session.Session{Username: "business_user", Role: pricing.RoleBusiness}); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := f.cart.AddSelection(ctx, "sess-1", 1, map[string]int{"m": 2}); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	receipt, err := f.svc.Submit(ctx, "sess-1", validDetails())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Totals.Subtotal != 13000 || receipt.Totals.Discount != 2600 || receipt.Totals.Total != 10400 {
		t.Fatalf("unexpected totals %+v", receipt.Totals)
	}
	if receipt.Role != pricing.RoleBusiness {
		t.Fatalf("unexpected role %q", receipt.Role)
	}
	if !strings.HasPrefix(receipt.HandoffURL, "https://wa.me/27720494067?text=") {
		t.Fatalf("unexpected hand-off url %q", receipt.HandoffURL)
	}
	if !strings.Contains(receipt.Message, "Bananas (M) - R65.00 × 2 = R130.00") {
		t.Fatalf("unexpected message:\n%s", receipt.Message)
	}

	// the cart is cleared after hand-off
	if items := f.cart.Restore(ctx, "sess-1"); len(items) != 0 {
		t.Fatalf("expected cleared cart, got %d items", len(items))
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].Topic != events.TopicOrderSubmitted {
		t.Fatalf("expected order.submitted event, got %+v", f.notifier.events)
	}
}

func TestSubmitGuestPaysFullPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.cart.AddSelection(ctx, "sess-2", 1, map[string]int{"xs": 1}); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	receipt, err := f.svc.Submit(ctx, "sess-2", validDetails())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if receipt.Totals.Discount != 0 || receipt.Totals.Total != 4500 {
		t.Fatalf("unexpected totals %+v", receipt.Totals)
	}
	if !strings.Contains(receipt.Message, "Discount (0%): -R0.00") {
		t.Fatalf("unexpected message:\n%s", receipt.Message)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), "sess-1", validDetails())
	var appErr *common.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitInvalidDetailsLeavesCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.cart.AddSelection(ctx, "sess-1", 1, map[string]int{"m": 1}); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	details := validDetails()
	details.Address = ""
	if _, err := f.svc.Submit(ctx, "sess-1", details); err == nil {
		t.Fatal("expected validation error")
	}
	if items := f.cart.Restore(ctx, "sess-1"); len(items) != 1 {
		t.Fatalf("cart must be untouched, got %d items", len(items))
	}
}

func TestSubmitHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.cart.AddSelection(ctx, "sess-1", 1, map[string]int{"m": 2}); err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	handler := &order.Handler{Svc: f.svc}
	body, _ := json.Marshal(validDetails())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	req = req.WithContext(common.WithSessionID(req.Context(), "sess-1"))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data order.Receipt `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Totals.Total != 13000 {
		t.Fatalf("guest total = %d, want 13000", resp.Data.Totals.Total)
	}
}

func TestSubmitHandlerBadJSON(t *testing.T) {
	f := newFixture(t)
	handler := &order.Handler{Svc: f.svc}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	handler.Submit(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
