package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeLimiter struct {
	counts map[string]int64
	scopes []string
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	f.scopes = append(f.scopes, scope)
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func TestRateLimitBlocksAfterLimitPerUser(t *testing.T) {
	store := newFakeLimiter()
	policy := NewRateLimitPolicy("nearby", time.Minute, 2)
	handler := RateLimit(policy, store, ByUser, nil)(okHandler())

	alice := uuid.New()
	bob := uuid.New()
	call := func(user uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/nearby", nil)
		req = req.WithContext(WithUserID(req.Context(), user))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		return resp.Code
	}

	for i := 0; i < 2; i++ {
		if code := call(alice); code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, code)
		}
	}
	if code := call(alice); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", code)
	}
	if code := call(bob); code != http.StatusOK {
		t.Fatalf("other users must have their own bucket, got %d", code)
	}
	if store.scopes[0] != "nearby:user:"+alice.String() {
		t.Fatalf("unexpected scope %q", store.scopes[0])
	}
}

func TestRateLimitByClientIPIgnoresSpoofedForwardedFor(t *testing.T) {
	store := newFakeLimiter()
	handler := RateLimit(NewRateLimitPolicy("auth", time.Minute, 1), store, ByClientIP, nil)(okHandler())

	for _, spoofed := range []string{"203.0.113.9", "203.0.113.10"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/google", nil)
		req.RemoteAddr = "198.51.100.4:5555"
		req.Header.Set("X-Forwarded-For", spoofed)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(store.scopes) != 2 {
		t.Fatalf("expected two attempts, got %d", len(store.scopes))
	}
	for _, scope := range store.scopes {
		if scope != "auth:ip:198.51.100.4" {
			t.Fatalf("expected the peer address bucket, got %q", scope)
		}
	}
}

func TestRateLimitByClientIPBehindTrustedProxy(t *testing.T) {
	store := newFakeLimiter()
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	handler := RealIP(trusted)(RateLimit(NewRateLimitPolicy("auth", time.Minute, 1), store, ByClientIP, nil)(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/google", nil)
	req.RemoteAddr = "10.1.2.3:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if store.scopes[0] != "auth:ip:203.0.113.9" {
		t.Fatalf("unexpected scope %q", store.scopes[0])
	}
}

func TestRateLimitStoreFailureIs503(t *testing.T) {
	store := newFakeLimiter()
	store.err = errors.New("redis down")
	handler := RateLimit(NewRateLimitPolicy("nearby", time.Minute, 5), store, ByUser, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.New()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	store := newFakeLimiter()
	handler := RateLimit(NewRateLimitPolicy("nearby", 0, 5), store, ByUser, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || len(store.scopes) != 0 {
		t.Fatalf("expected pass-through, got %d with %d calls", resp.Code, len(store.scopes))
	}
}
