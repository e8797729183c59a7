// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"errors"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

// UnknownEmail is shown for respondents without a profile email
const UnknownEmail = "Unknown"

var ErrNoResponses = errors.New("no responses to export")

// Row is one respondent's merged answers
type Row struct {
	UserID      string            `json:"user_id"`
	Email       string            `json:"email"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Submissions int               `json:"submissions"`
	Answers     map[string]string `json:"answers"`
}

// Matrix is the respondent x question table behind every report view.
// Questions are in order_number order.
type Matrix struct {
	Questions []models.Question `json:"questions"`
	Rows      []Row             `json:"rows"`
}

// BuildMatrix groups response rows by respondent.
//
// A respondent who answered the same question more than once keeps the
// answer with the latest created_at; on equal timestamps the later input
// row wins. Answers to questions not in the list are ignored. Rows are
// ordered by latest submission time, newest first, then by user id.
func BuildMatrix(questions []models.Question, responses []models.Response) Matrix {
	ordered := make([]models.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderNumber < ordered[j].OrderNumber
	})

	known := make(map[string]bool, len(ordered))
	for _, q := range ordered {
		known[q.ID] = true
	}

	type acc struct {
		row         *Row
		answeredAt  map[string]time.Time
		submissions map[string]struct{}
	}
	byUser := make(map[string]*acc)
	var order []string

	for _, r := range responses {
		a, ok := byUser[r.UserID]
		if !ok {
			a = &acc{
				row:         &Row{UserID: r.UserID, Answers: make(map[string]string)},
				answeredAt:  make(map[string]time.Time),
				submissions: make(map[string]struct{}),
			}
			byUser[r.UserID] = a
			order = append(order, r.UserID)
		}

		if a.row.Email == "" && r.Email != "" {
			a.row.Email = r.Email
		}
		if r.CreatedAt.After(a.row.SubmittedAt) {
			a.row.SubmittedAt = r.CreatedAt
		}
		a.submissions[submissionKey(r)] = struct{}{}

		if !known[r.QuestionID] {
			continue
		}
		prev, seen := a.answeredAt[r.QuestionID]
		if seen && r.CreatedAt.Before(prev) {
			continue
		}
		a.answeredAt[r.QuestionID] = r.CreatedAt
		a.row.Answers[r.QuestionID] = r.AnswerText
	}

	rows := make([]Row, 0, len(order))
	for _, userID := range order {
		a := byUser[userID]
		if a.row.Email == "" {
			a.row.Email = UnknownEmail
		}
		a.row.Submissions = len(a.submissions)
		rows = append(rows, *a.row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].SubmittedAt.Equal(rows[j].SubmittedAt) {
			return rows[i].SubmittedAt.After(rows[j].SubmittedAt)
		}
		return rows[i].UserID < rows[j].UserID
	})

	return Matrix{Questions: ordered, Rows: rows}
}

// Rows written before submission ids existed fall back to their timestamp.
func submissionKey(r models.Response) string {
	if r.SubmissionID != "" {
		return r.SubmissionID
	}
	return r.CreatedAt.UTC().Format(time.RFC3339Nano)
}
