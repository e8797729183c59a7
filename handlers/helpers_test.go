// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/session"
	"github.com/danielhkuo/quickly-survey/testutil"
)

// testEnv bundles what every handler test needs
type testEnv struct {
	db       *sql.DB
	cfg      cliparse.Config
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	sessions := session.NewManager(db, cfg)
	t.Cleanup(sessions.Close)
	return &testEnv{db: db, cfg: cfg, sessions: sessions}
}

// user creates a user and returns the principal a gate would attach
func (e *testEnv) user(t *testing.T, email string, role models.Role) models.Principal {
	t.Helper()
	id := testutil.CreateTestUser(t, e.db, email, role)
	return models.Principal{UserID: id, Email: email, Role: role}
}

// as attaches the principal to the request the way RequireRoles does
func as(req *http.Request, p models.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func textQ(text string) models.QuestionInput {
	return models.QuestionInput{QuestionText: text, QuestionType: models.QuestionText}
}

func scaleQ(text string) models.QuestionInput {
	return models.QuestionInput{QuestionText: text, QuestionType: models.QuestionScale}
}

func choiceQ(text string, options ...string) models.QuestionInput {
	return models.QuestionInput{QuestionText: text, QuestionType: models.QuestionMultiple, Options: options}
}
