// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/session"
)

// SessionCookie carries the session token for browser clients
const SessionCookie = "qs_session"

// Resolver maps a session token to a principal. *session.Manager
// implements it.
type Resolver interface {
	Resolve(ctx context.Context, token string) (models.Principal, error)
}

type principalKey struct{}

// WithPrincipal stores the principal in ctx
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by RequireRoles or
// RequireSession
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// TokenFromRequest reads a bearer token, falling back to the session cookie
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// gateState resolves the caller. Backend failures leave the state loading.
func gateState(res Resolver, r *http.Request) GateState {
	p, err := res.Resolve(r.Context(), TokenFromRequest(r))
	switch {
	case err == nil:
		return GateState{Principal: &p}
	case errors.Is(err, session.ErrUnauthenticated):
		return GateState{}
	default:
		slog.Error("failed to resolve session", "error", err, "path", r.URL.Path)
		return GateState{Loading: true}
	}
}

// RequireRoles runs next only for principals holding one of roles.
// With no roles any signed-in principal is admitted. Everyone else is
// redirected before next runs.
func RequireRoles(res Resolver, roles ...models.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			state := gateState(res, r)
			d := Decide(state, roles)

			switch d.Outcome {
			case OutcomeAdmit:
				next(w, r.WithContext(WithPrincipal(r.Context(), *state.Principal)))
			case OutcomeRedirect:
				Redirect(w, d.Location, "")
			case OutcomePending:
				w.Header().Set("Retry-After", "1")
				ErrorResponse(w, http.StatusServiceUnavailable, "Session could not be resolved")
			}
		}
	}
}

// RequireSession is the API variant of RequireRoles: a caller without a
// session gets 401 instead of a redirect.
func RequireSession(res Resolver) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			state := gateState(res, r)
			switch {
			case state.Loading:
				w.Header().Set("Retry-After", "1")
				ErrorResponse(w, http.StatusServiceUnavailable, "Session could not be resolved")
			case state.Principal == nil:
				ErrorResponse(w, http.StatusUnauthorized, "Not signed in")
			default:
				next(w, r.WithContext(WithPrincipal(r.Context(), *state.Principal)))
			}
		}
	}
}
