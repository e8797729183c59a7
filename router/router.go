// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/handlers"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/session"
)

// signInBurst is how many sign-in attempts an IP may make back to back
const signInBurst = 5

func NewRouter(db *sql.DB, cfg cliparse.Config, sessions *session.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(sessions, cfg)
	dashboardHandler := handlers.NewDashboardHandler(db, cfg)
	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	responseHandler := handlers.NewResponseHandler(db, cfg)
	reportHandler := handlers.NewReportHandler(db, cfg)

	signInLimiter := middleware.NewIPRateLimiter(cfg.SignInRate, signInBurst, cfg.TrustProxy)

	// Gates
	signedIn := middleware.RequireRoles(sessions)
	apiSession := middleware.RequireSession(sessions)
	admins := middleware.RequireRoles(sessions, models.RoleAdministrator)
	surveyors := middleware.RequireRoles(sessions, models.RoleSurveyor)
	respondents := middleware.RequireRoles(sessions, models.RoleRespondent)
	authors := middleware.RequireRoles(sessions, models.RoleSurveyor, models.RoleAdministrator)

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity (public)
	route("POST /auth/sign-up", authHandler.SignUp)
	route("POST /auth/sign-in", signInLimiter.Limit(authHandler.SignIn))
	route("POST /auth/password-reset", signInLimiter.Limit(authHandler.RequestPasswordReset))
	route("POST /auth/password-reset/confirm", authHandler.ConfirmPasswordReset)

	// Identity (signed in)
	route("POST /auth/sign-out", apiSession(authHandler.SignOut))
	route("GET /auth/session", apiSession(authHandler.CurrentSession))

	// Role homes
	route("GET /admin/dashboard", admins(dashboardHandler.Admin))
	route("GET /surveys/dashboard", surveyors(dashboardHandler.Surveyor))
	route("GET /encuestas", respondents(dashboardHandler.Respondent))
	route("GET /dashboard", signedIn(dashboardHandler.Overview))

	// Authoring
	route("POST /surveys", authors(surveyHandler.CreateSurvey))
	route("GET /surveys/{id}", authors(surveyHandler.GetSurvey))
	route("PUT /surveys/{id}", authors(surveyHandler.UpdateSurvey))
	route("DELETE /surveys/{id}", authors(surveyHandler.DeleteSurvey))
	route("DELETE /questions/{id}", authors(surveyHandler.DeleteQuestion))

	// Collection
	route("GET /surveys/{id}/take", signedIn(responseHandler.TakeSurvey))
	route("POST /surveys/{id}/responses", signedIn(responseHandler.SubmitResponses))

	// Reporting
	route("GET /reports/{id}", authors(reportHandler.GetReport))
	route("GET /reports/{id}/export", authors(reportHandler.Export))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-survey API v1"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Route not found")
	})

	return mux
}
