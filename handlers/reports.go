// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/report"
	"github.com/danielhkuo/quickly-survey/surveys"
	"github.com/dustin/go-humanize"
)

const notCreatorMessage = "Only the survey creator can view its results"

type ReportHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	now func() time.Time
}

func NewReportHandler(db *sql.DB, cfg cliparse.Config) *ReportHandler {
	return &ReportHandler{db: db, cfg: cfg, now: time.Now}
}

// load checks ownership first and only then reads questions and
// responses. On failure the response is already written.
func (h *ReportHandler) load(w http.ResponseWriter, r *http.Request) (report.Report, bool) {
	p, _ := middleware.PrincipalFrom(r.Context())
	surveyID := r.PathValue("id")

	s, err := surveys.LoadSurvey(r.Context(), h.db, surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Survey not found")
		return report.Report{}, false
	}
	if err != nil {
		slog.Error("failed to load survey", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return report.Report{}, false
	}
	if s.CreatedBy != p.UserID {
		slog.Warn("report requested by non-owner", "survey_id", surveyID, "user_id", p.UserID)
		middleware.Redirect(w, models.PathDashboard, notCreatorMessage)
		return report.Report{}, false
	}

	questions, err := surveys.LoadQuestions(r.Context(), h.db, surveyID)
	if err != nil {
		slog.Error("failed to load questions", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return report.Report{}, false
	}

	responses, err := report.LoadResponses(r.Context(), h.db, surveyID)
	if err != nil {
		slog.Error("failed to load responses", "error", err, "survey_id", surveyID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return report.Report{}, false
	}

	return report.Build(s, questions, responses), true
}

// GetReport handles GET /reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.load(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rep)
}

// Export handles GET /reports/{id}/export?format=csv|pdf
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "format must be csv or pdf")
		return
	}

	rep, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	var err error
	var contentType, filename string
	switch format {
	case "pdf":
		err = report.WritePDF(&buf, rep.Survey.Title, rep.Matrix)
		contentType = "application/pdf"
		filename = report.PDFFilename(rep.Survey.Title, h.now())
	default:
		err = report.WriteCSV(&buf, rep.Matrix)
		contentType = "text/csv; charset=utf-8"
		filename = report.Filename(rep.Survey.Title, h.now())
	}
	if errors.Is(err, report.ErrNoResponses) {
		middleware.ErrorResponse(w, http.StatusNotFound, report.ErrNoResponses.Error())
		return
	}
	if err != nil {
		slog.Error("failed to render export", "error", err, "survey_id", rep.Survey.ID, "format", format)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export results")
		return
	}

	slog.Info("results exported",
		"survey_id", rep.Survey.ID,
		"format", format,
		"respondents", rep.TotalRespondents,
		"size", humanize.Bytes(uint64(buf.Len())),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
