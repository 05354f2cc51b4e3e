package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestIdempotencyMiddleware(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	calls := 0
	handler := Idempotency{R: client, TTL: time.Minute}.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
		}))

	newReq := func(key string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		return req
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq("abc"))
	if rr.Code != http.StatusCreated || calls != 1 {
		t.Fatalf("first request: code=%d calls=%d", rr.Code, calls)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq("abc"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("replay must 409, got %d", rr.Code)
	}
	if calls != 1 {
		t.Fatalf("handler must not run on replay, calls=%d", calls)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq("other"))
	if rr.Code != http.StatusCreated || calls != 2 {
		t.Fatalf("distinct key: code=%d calls=%d", rr.Code, calls)
	}

	// no key, no idempotency semantics
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq(""))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, newReq(""))
	if calls != 4 {
		t.Fatalf("keyless requests must always run, calls=%d", calls)
	}
}

func TestIdempotencyKeyExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	handler := Idempotency{R: client, TTL: time.Second}.Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("Idempotency-Key", "abc")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req.Clone(req.Context()))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first request: %d", rr.Code)
	}

	mr.FastForward(2 * time.Second)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req.Clone(req.Context()))
	if rr.Code != http.StatusCreated {
		t.Fatalf("request after expiry must pass, got %d", rr.Code)
	}
}
