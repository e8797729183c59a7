// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL is how long an idle client keeps its limiter
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time

	// trustProxy keys on forwarding headers instead of the peer address
	trustProxy bool
}

// NewIPRateLimiter allows perSecond sustained requests per IP with the
// given burst. Clients are told apart by their connection address unless
// trustProxy is set.
func NewIPRateLimiter(perSecond float64, burst int, trustProxy bool) *IPRateLimiter {
	return &IPRateLimiter{
		visitors:   make(map[string]*visitor),
		limit:      rate.Limit(perSecond),
		burst:      burst,
		now:        time.Now,
		trustProxy: trustProxy,
	}
}

// clientKey identifies the client a request is charged to
func (l *IPRateLimiter) clientKey(r *http.Request) string {
	if l.trustProxy {
		return GetClientIP(r)
	}
	return PeerIP(r)
}

// Allow reports whether ip may make a request now
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) > idleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(l.visitors, key)
			}
		}
		l.lastPrune = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Limit rejects requests over the per-IP rate with 429
func (l *IPRateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientKey(r)) {
			slog.Warn("rate limited", "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "Too many attempts, try again later")
			return
		}
		next(w, r)
	}
}
