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

const notPublishedMessage = "This survey is not published"

type ResponseHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResponseHandler(db *sql.DB, cfg cliparse.Config) *ResponseHandler {
	return &ResponseHandler{db: db, cfg: cfg}
}

// publishedSurvey loads a survey that is open for answers. On failure the
// response is already written.
func (h *ResponseHandler) publishedSurvey(w http.ResponseWriter, r *http.Request) (models.Survey, []models.Question, bool) {
	surveyID := r.PathValue("id")

	s, err := surveys.LoadSurvey(r.Context(), h.db, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return models.Survey{}, nil, false
	}
	if err != nil {
		slog.Error("failed to load survey", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Survey{}, nil, false
	}
	if !s.IsPublished {
		middleware.Redirect(w, models.PathDashboard, notPublishedMessage)
		return models.Survey{}, nil, false
	}

	questions, err := surveys.LoadQuestions(r.Context(), h.db, surveyID)
	if err != nil {
		slog.Error("failed to load questions", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Survey{}, nil, false
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return s, questions, true
}

// TakeSurvey handles GET /surveys/{id}/take
func (h *ResponseHandler) TakeSurvey(w http.ResponseWriter, r *http.Request) {
	s, questions, ok := h.publishedSurvey(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.SurveyWithQuestions{Survey: s, Questions: questions})
}

// SubmitResponses handles POST /surveys/{id}/responses. Every row of one
// submission shares a submission id and timestamp.
func (h *ResponseHandler) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var req models.SubmitResponsesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	s, questions, ok := h.publishedSurvey(w, r)
	if !ok {
		return
	}
	if len(questions) == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Survey has no questions")
		return
	}

	answers, err := surveys.ValidateAnswers(questions, req.Answers)
	var ae *surveys.AnswerError
	if errors.As(err, &ae) {
		middleware.ErrorDetails(w, http.StatusBadRequest, ae.Err.Error(), ae.QuestionIDs)
		return
	}
	if err != nil {
		slog.Error("failed to validate answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit responses")
		return
	}

	submissionID := uuid.NewString()
	now := time.Now().UTC()

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit responses")
		return
	}
	defer tx.Rollback()

	for _, q := range questions {
		_, err := tx.ExecContext(r.Context(), `
			INSERT INTO responses (id, survey_id, question_id, user_id, submission_id, answer_text, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.NewString(), s.ID, q.ID, p.UserID, submissionID, answers[q.ID], now)
		if err != nil {
			slog.Error("failed to insert response", "error", err, "survey_id", s.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit responses")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit responses")
		return
	}

	slog.Info("responses submitted", "survey_id", s.ID, "user_id", p.UserID, "submission_id", submissionID)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitResponsesResponse{
		SubmissionID: submissionID,
		Count:        len(questions),
		Message:      "Thank you for your answers",
	})
}
