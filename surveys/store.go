// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package surveys

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-survey/models"
)

// Queryer is satisfied by *sql.DB and *sql.Tx
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer is satisfied by *sql.DB and *sql.Tx
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LoadSurvey reads one survey row. sql.ErrNoRows is returned unwrapped.
func LoadSurvey(ctx context.Context, q Queryer, surveyID string) (models.Survey, error) {
	var s models.Survey
	var description sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT id, title, description, created_by, is_published, created_at
		FROM surveys WHERE id = $1
	`, surveyID).Scan(&s.ID, &s.Title, &description, &s.CreatedBy, &s.IsPublished, &s.CreatedAt)
	if err != nil {
		return models.Survey{}, err
	}
	s.Description = description.String
	return s, nil
}

// LoadQuestions reads a survey's questions ordered by order_number
func LoadQuestions(ctx context.Context, q Queryer, surveyID string) ([]models.Question, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, question_text, question_type, options, order_number
		FROM questions
		WHERE survey_id = $1
		ORDER BY order_number, id
	`, surveyID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		var question models.Question
		var options sql.NullString
		if err := rows.Scan(&question.ID, &question.QuestionText, &question.QuestionType, &options, &question.OrderNumber); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if options.Valid {
			question.Options, err = DecodeOptions(&options.String)
			if err != nil {
				return nil, err
			}
		}
		question.SurveyID = surveyID
		out = append(out, question)
	}

	return out, rows.Err()
}

// InsertQuestions writes the draft's questions for surveyID and fills in
// their generated ids.
func InsertQuestions(ctx context.Context, ex Execer, surveyID string, questions []models.Question, newID func() string) error {
	for i := range questions {
		options, err := EncodeOptions(questions[i].Options)
		if err != nil {
			return err
		}
		questions[i].ID = newID()
		questions[i].SurveyID = surveyID
		_, err = ex.ExecContext(ctx, `
			INSERT INTO questions (id, survey_id, question_text, question_type, options, order_number)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, questions[i].ID, surveyID, questions[i].QuestionText, string(questions[i].QuestionType), options, questions[i].OrderNumber)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", questions[i].OrderNumber, err)
		}
	}
	return nil
}
