// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Survey API.

	mux := router.NewRouter(db, cfg, sessions)

# Endpoints

Public:

	GET  /health
	POST /auth/sign-up
	POST /auth/sign-in               (rate limited per IP)
	POST /auth/password-reset        (rate limited per IP)
	POST /auth/password-reset/confirm

Any session (401 without one):

	POST /auth/sign-out
	GET  /auth/session

Role homes (303 to /auth or to the caller's own home):

	GET /admin/dashboard   administrator
	GET /surveys/dashboard surveyor
	GET /encuestas         respondent
	GET /dashboard         any role

Authoring and reports (surveyor or administrator, creator only):

	POST   /surveys
	GET    /surveys/{id}
	PUT    /surveys/{id}
	DELETE /surveys/{id}
	DELETE /questions/{id}
	GET    /reports/{id}
	GET    /reports/{id}/export?format=csv|pdf

Answering (any role):

	GET  /surveys/{id}/take
	POST /surveys/{id}/responses

Unknown paths return a JSON 404.
*/
package router
