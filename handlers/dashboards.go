// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
)

type DashboardHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDashboardHandler(db *sql.DB, cfg cliparse.Config) *DashboardHandler {
	return &DashboardHandler{db: db, cfg: cfg}
}

const surveyColumns = `s.id, s.title, s.description, s.created_by, s.is_published, s.created_at`

// scanSurvey reads the columns listed in surveyColumns plus any extras
func scanSurvey(rows *sql.Rows, extra ...any) (models.Survey, error) {
	var s models.Survey
	var description sql.NullString
	dest := append([]any{&s.ID, &s.Title, &description, &s.CreatedBy, &s.IsPublished, &s.CreatedAt}, extra...)
	if err := rows.Scan(dest...); err != nil {
		return models.Survey{}, err
	}
	s.Description = description.String
	return s, nil
}

func (h *DashboardHandler) listSurveys(r *http.Request, query string, args ...any) ([]models.Survey, error) {
	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Survey{}
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Admin handles GET /admin/dashboard
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	var stats models.AdminStats
	for table, dest := range map[string]*int{
		"profiles":  &stats.Profiles,
		"surveys":   &stats.Surveys,
		"responses": &stats.Responses,
	} {
		if err := h.db.QueryRowContext(r.Context(), fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(dest); err != nil {
			slog.Error("failed to count rows", "table", table, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT p.id, p.email, p.full_name, p.created_at, ur.role
		FROM profiles p
		LEFT JOIN user_roles ur ON ur.user_id = p.id
		ORDER BY p.created_at DESC, p.id
	`)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	users := []models.UserWithRole{}
	for rows.Next() {
		var u models.UserWithRole
		var fullName, role sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &fullName, &u.CreatedAt, &role); err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		u.FullName = fullName.String
		// Unknown or missing roles are shown as unassigned
		u.Role, _ = models.ParseRole(role.String)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminDashboardResponse{
		Stats: stats,
		Users: users,
	})
}

// Surveyor handles GET /surveys/dashboard
func (h *DashboardHandler) Surveyor(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	list, err := h.listSurveys(r, `
		SELECT `+surveyColumns+`
		FROM surveys s
		WHERE s.created_by = $1
		ORDER BY s.created_at DESC, s.id
	`, p.UserID)
	if err != nil {
		slog.Error("failed to list own surveys", "error", err, "user_id", p.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SurveyListResponse{Surveys: list})
}

// Respondent handles GET /encuestas
func (h *DashboardHandler) Respondent(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var profile models.Profile
	var fullName sql.NullString
	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, email, full_name, created_at FROM profiles WHERE id = $1
	`, p.UserID).Scan(&profile.ID, &profile.Email, &fullName, &profile.CreatedAt)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "user_id", p.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	profile.FullName = fullName.String

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT `+surveyColumns+`,
		       EXISTS (SELECT 1 FROM responses r WHERE r.survey_id = s.id AND r.user_id = $1)
		FROM surveys s
		WHERE s.is_published = $2
		ORDER BY s.created_at DESC, s.id
	`, p.UserID, true)
	if err != nil {
		slog.Error("failed to list published surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	list := []models.RespondentSurvey{}
	for rows.Next() {
		var answered bool
		s, err := scanSurvey(rows, &answered)
		if err != nil {
			slog.Error("failed to scan survey", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		list = append(list, models.RespondentSurvey{Survey: s, Answered: answered})
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate surveys", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RespondentDashboardResponse{
		Profile: profile,
		Surveys: list,
	})
}

// Overview handles GET /dashboard: the caller's own surveys plus every
// published one
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	list, err := h.listSurveys(r, `
		SELECT `+surveyColumns+`
		FROM surveys s
		WHERE s.created_by = $1 OR s.is_published = $2
		ORDER BY s.created_at DESC, s.id
	`, p.UserID, true)
	if err != nil {
		slog.Error("failed to list surveys", "error", err, "user_id", p.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SurveyListResponse{Surveys: list})
}
