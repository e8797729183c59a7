// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Role Gate

Decide is the pure navigation rule. Given the session state and the roles
a screen allows, it returns one of:

  - OutcomePending: the session is still resolving, nothing is rendered
  - OutcomeRedirect: anonymous callers go to /auth, callers with the wrong
    role go to their own home
  - OutcomeAdmit: the screen renders

RequireRoles applies it to a handler:

	admins := middleware.RequireRoles(sessions, models.RoleAdministrator)
	mux.HandleFunc("GET /admin/dashboard", admins(handler))

A pending outcome is answered with 503 and Retry-After. RequireSession is
the API form: 401 instead of a redirect.

The session token is read from "Authorization: Bearer" or the qs_session
cookie.

# Rate Limiting

	limiter := middleware.NewIPRateLimiter(1, 5, cfg.TrustProxy)
	mux.HandleFunc("POST /auth/sign-in", limiter.Limit(handler))

Clients are keyed by the connection address (PeerIP). X-Forwarded-For is
only used when trustProxy is set.

# Validation

DecodeValid parses a JSON body and runs its validate tags, writing a 400
with per-field details on failure.

# Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.Redirect(w, "/dashboard", "message")
	ip := middleware.GetClientIP(r)

WithLogging logs one line per request with status and duration. CORS
exposes Location and Content-Disposition to browser clients.
*/
package middleware
