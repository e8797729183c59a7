// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

// LoadResponses reads every response row of a survey together with the
// respondent's profile email, newest first.
func LoadResponses(ctx context.Context, db *sql.DB, surveyID string) ([]models.Response, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT r.id, r.question_id, r.user_id, r.submission_id, r.answer_text, r.created_at, p.email
		FROM responses r
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE r.survey_id = $1
		ORDER BY r.created_at DESC
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []models.Response
	for rows.Next() {
		var r models.Response
		var email sql.NullString
		var createdAt time.Time
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.UserID, &r.SubmissionID, &r.AnswerText, &createdAt, &email); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		r.SurveyID = surveyID
		r.CreatedAt = createdAt
		r.Email = email.String
		out = append(out, r)
	}

	return out, rows.Err()
}
