// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/surveys"
	"github.com/google/uuid"
)

const notOwnerMessage = "You do not have permission to modify this survey"

type SurveyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSurveyHandler(db *sql.DB, cfg cliparse.Config) *SurveyHandler {
	return &SurveyHandler{db: db, cfg: cfg}
}

// draftError writes the 400 for a rejected draft
func draftError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, surveys.ErrTitleRequired),
		errors.Is(err, surveys.ErrNoQuestions),
		errors.Is(err, surveys.ErrOptionsRequired),
		errors.Is(err, surveys.ErrInvalidType):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("unexpected draft error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save survey")
	}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var req models.CreateSurveyRequest
	if !middleware.DecodeValid(w, r, &req) {
		return
	}

	draft := surveys.NewDraft(req.Title, req.Description, req.IsPublished, 0)
	for _, q := range req.Questions {
		if _, err := draft.AddQuestion(q); err != nil {
			draftError(w, err)
			return
		}
	}
	if err := draft.Validate(); err != nil {
		draftError(w, err)
		return
	}

	surveyID := uuid.NewString()

	// Survey and questions land together or not at all
	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(r.Context(), `
		INSERT INTO surveys (id, title, description, created_by, is_published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, surveyID, draft.Title, draft.Description, p.UserID, draft.IsPublished, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	if err := surveys.InsertQuestions(r.Context(), tx, surveyID, draft.Questions, uuid.NewString); err != nil {
		slog.Error("failed to insert questions", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit survey", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create survey")
		return
	}

	slog.Info("survey created", "survey_id", surveyID, "user_id", p.UserID, "questions", len(draft.Questions))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		SurveyID:      surveyID,
		QuestionCount: len(draft.Questions),
	})
}

// ownedSurvey loads the survey named in the path and checks that the
// caller created it. On failure the response is already written.
func (h *SurveyHandler) ownedSurvey(w http.ResponseWriter, r *http.Request, surveyID string) (models.Survey, bool) {
	p, _ := middleware.PrincipalFrom(r.Context())

	s, err := surveys.LoadSurvey(r.Context(), h.db, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return models.Survey{}, false
	}
	if err != nil {
		slog.Error("failed to load survey", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Survey{}, false
	}
	if s.CreatedBy != p.UserID {
		slog.Warn("survey owner mismatch", "survey_id", surveyID, "user_id", p.UserID)
		middleware.Redirect(w, models.PathDashboard, notOwnerMessage)
		return models.Survey{}, false
	}
	return s, true
}

func (h *SurveyHandler) writeSurvey(w http.ResponseWriter, r *http.Request, status int, s models.Survey) {
	questions, err := surveys.LoadQuestions(r.Context(), h.db, s.ID)
	if err != nil {
		slog.Error("failed to load questions", "error", err, "survey_id", s.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	middleware.JSONResponse(w, status, models.SurveyWithQuestions{Survey: s, Questions: questions})
}

// GetSurvey handles GET /surveys/{id} for the survey editor
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedSurvey(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	h.writeSurvey(w, r, http.StatusOK, s)
}

// UpdateSurvey handles PUT /surveys/{id}. Existing questions are kept and
// the request's questions are appended after them.
func (h *SurveyHandler) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSurveyRequest
	if !middleware.DecodeValid(w, r, &req) {
		return
	}

	s, ok := h.ownedSurvey(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	existing, err := surveys.LoadQuestions(r.Context(), h.db, s.ID)
	if err != nil {
		slog.Error("failed to load questions", "error", err, "survey_id", s.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	next := 0
	for _, q := range existing {
		if q.OrderNumber >= next {
			next = q.OrderNumber + 1
		}
	}

	draft := surveys.NewDraft(req.Title, req.Description, req.IsPublished, next)
	for _, q := range req.Questions {
		if _, err := draft.AddQuestion(q); err != nil {
			draftError(w, err)
			return
		}
	}
	if err := draft.Validate(); err != nil && !(errors.Is(err, surveys.ErrNoQuestions) && len(existing) > 0) {
		draftError(w, err)
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update survey")
		return
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(r.Context(), `
		UPDATE surveys SET title = $1, description = $2, is_published = $3 WHERE id = $4
	`, draft.Title, draft.Description, draft.IsPublished, s.ID)
	if err != nil {
		slog.Error("failed to update survey", "error", err, "survey_id", s.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update survey")
		return
	}

	if err := surveys.InsertQuestions(r.Context(), tx, s.ID, draft.Questions, uuid.NewString); err != nil {
		slog.Error("failed to insert questions", "error", err, "survey_id", s.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update survey")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit survey update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update survey")
		return
	}

	slog.Info("survey updated", "survey_id", s.ID, "added_questions", len(draft.Questions))

	s.Title, s.Description, s.IsPublished = draft.Title, draft.Description, draft.IsPublished
	h.writeSurvey(w, r, http.StatusOK, s)
}

// DeleteSurvey handles DELETE /surveys/{id}; questions and responses go
// with it
func (h *SurveyHandler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	s, ok := h.ownedSurvey(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	if _, err := h.db.ExecContext(r.Context(), "DELETE FROM surveys WHERE id = $1", s.ID); err != nil {
		slog.Error("failed to delete survey", "error", err, "survey_id", s.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete survey")
		return
	}

	slog.Info("survey deleted", "survey_id", s.ID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Survey deleted"})
}

// DeleteQuestion handles DELETE /questions/{id}. A survey keeps at least
// one question.
func (h *SurveyHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")

	var surveyID string
	err := h.db.QueryRowContext(r.Context(), "SELECT survey_id FROM questions WHERE id = $1", questionID).Scan(&surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to load question", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, ok := h.ownedSurvey(w, r, surveyID); !ok {
		return
	}

	var count int
	if err := h.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM questions WHERE survey_id = $1", surveyID).Scan(&count); err != nil {
		slog.Error("failed to count questions", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count <= 1 {
		middleware.ErrorResponse(w, http.StatusConflict, surveys.ErrNoQuestions.Error())
		return
	}

	if _, err := h.db.ExecContext(r.Context(), "DELETE FROM questions WHERE id = $1", questionID); err != nil {
		slog.Error("failed to delete question", "error", err, "question_id", questionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete question")
		return
	}

	slog.Info("question deleted", "question_id", questionID, "survey_id", surveyID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Question deleted"})
}
