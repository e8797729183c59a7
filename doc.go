// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Survey API server.

Quickly Survey lets surveyors author surveys, respondents answer them, and
creators read aggregated results or export them as CSV and PDF. Every
screen is gated by the caller's role.

# Starting the Server

	DATABASE_URL=survey.db SESSION_SECRET=... go run .

Or against PostgreSQL with flags:

	go run . -t postgres -d "postgres://..." --session-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - SESSION_SECRET (--session-secret): HMAC key for session tokens

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SESSION_TTL (--session-ttl): Session lifetime (default: 168h)
  - LOG_FILE (--log-file): Also write logs to a rotating file
  - TRUST_PROXY (--trust-proxy): Rate limit on forwarded client IPs; only
    behind a proxy that overwrites X-Forwarded-For
  - SIGN_IN_RATE (--sign-in-rate): Sign-in attempts per second per IP

A .env file in the working directory is loaded first.

# Architecture

  - handlers: HTTP request handlers (auth, dashboards, surveys, responses, reports)
  - router: Route table and role gates
  - middleware: Role gate, sessions, rate limiting, validation, JSON helpers
  - session: Sign-up, sign-in, session resolution, password resets
  - surveys: Authoring and answer validation rules
  - report: Response matrix, scale averages, CSV and PDF export
  - models: Request/response and domain types
  - auth: Password hashing, session tokens, random IDs
  - db: Connection and schema
  - cliparse: Configuration parsing
*/
package main
