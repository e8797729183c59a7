// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_Allow(t *testing.T) {
	l := NewIPRateLimiter(1, 2, false)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatal("burst of 2 was not allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Error("third request inside the burst window was allowed")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("a different IP was limited")
	}

	now = now.Add(time.Second)
	if !l.Allow("1.1.1.1") {
		t.Error("token was not refilled after one second")
	}
}

func TestIPRateLimiter_PrunesIdle(t *testing.T) {
	l := NewIPRateLimiter(1, 1, false)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("1.1.1.1")
	now = now.Add(idleTTL + time.Minute)
	l.Allow("2.2.2.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.visitors["1.1.1.1"]; ok {
		t.Error("idle visitor was not pruned")
	}
}

func TestIPRateLimiter_Limit(t *testing.T) {
	l := NewIPRateLimiter(0.001, 1, false)
	handler := l.Limit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("POST", "/auth/sign-in", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		w := httptest.NewRecorder()
		handler(w, req)
		if w.Code != want {
			t.Errorf("request %d: expected status %d, got %d", i, want, w.Code)
		}
	}
}

func TestIPRateLimiter_ForwardedHeaders(t *testing.T) {
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

	testCases := []struct {
		name       string
		trustProxy bool
		want       []int
	}{
		// one socket rotating X-Forwarded-For is still one client
		{"untrusted", false, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}},
		// behind a trusted proxy every forwarded address is its own client
		{"trusted", true, []int{http.StatusOK, http.StatusOK, http.StatusOK}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewIPRateLimiter(0.001, 1, tc.trustProxy).Limit(ok)

			for i, want := range tc.want {
				req := httptest.NewRequest("POST", "/auth/sign-in", nil)
				req.RemoteAddr = "203.0.113.7:4000"
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
				w := httptest.NewRecorder()
				handler(w, req)
				if w.Code != want {
					t.Errorf("request %d: expected status %d, got %d", i, want, w.Code)
				}
			}
		})
	}
}
