// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/surveys"
	"github.com/google/uuid"
)

// TestPassword is the password of every user made by CreateTestUser
const TestPassword = "password123"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The database lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		DatabaseURL:   "file:test.db",
		DatabaseType:  db.TypeSQLite,
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
		SignInRate:    100,
	}
}

// CreateTestUser inserts a profile, role and account and returns the user ID.
// RoleNone skips the role row.
func CreateTestUser(t *testing.T, conn *sql.DB, email string, role models.Role) string {
	t.Helper()

	userID := uuid.NewString()
	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO profiles (id, email, full_name, created_at)
		VALUES ($1, $2, $3, $4)
	`, userID, email, "Test "+role.String(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	if role != models.RoleNone {
		_, err = conn.Exec("INSERT INTO user_roles (user_id, role) VALUES ($1, $2)", userID, role.String())
		if err != nil {
			t.Fatalf("Failed to create test role: %v", err)
		}
	}

	_, err = conn.Exec(`
		INSERT INTO accounts (user_id, email, password_hash) VALUES ($1, $2, $3)
	`, userID, email, hash)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return userID
}

// CreateTestSurvey inserts a survey with the given questions and returns
// the survey ID and question IDs in input order
func CreateTestSurvey(t *testing.T, conn *sql.DB, ownerID, title string, published bool, questions ...models.QuestionInput) (string, []string) {
	t.Helper()

	surveyID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO surveys (id, title, description, created_by, is_published, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, surveyID, title, "A test survey", ownerID, published, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}

	d := surveys.NewDraft(title, "", published, 0)
	for _, q := range questions {
		if _, err := d.AddQuestion(q); err != nil {
			t.Fatalf("Invalid test question: %v", err)
		}
	}
	if err := surveys.InsertQuestions(context.Background(), conn, surveyID, d.Questions, uuid.NewString); err != nil {
		t.Fatalf("Failed to create test questions: %v", err)
	}

	ids := make([]string, len(d.Questions))
	for i, q := range d.Questions {
		ids[i] = q.ID
	}
	return surveyID, ids
}

// AddTestResponse inserts one answer row
func AddTestResponse(t *testing.T, conn *sql.DB, surveyID, questionID, userID, submissionID, answer string, at time.Time) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO responses (id, survey_id, question_id, user_id, submission_id, answer_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), surveyID, questionID, userID, submissionID, answer, at.UTC())
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}
}

// CountRows returns the number of rows in table matching an optional
// "column = value" filter
func CountRows(t *testing.T, conn *sql.DB, table, column, value string) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	args := []any{}
	if column != "" {
		query += " WHERE " + column + " = $1"
		args = append(args, value)
	}

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// Bearer returns the Authorization header for a session token
func Bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected Location %q, got %q", location, got)
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
