// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func TestTakeSurvey(t *testing.T) {
	env := newTestEnv(t)
	h := NewResponseHandler(env.db, env.cfg)
	author := env.user(t, "author@example.com", models.RoleSurveyor)
	respondent := env.user(t, "r@example.com", models.RoleRespondent)

	publishedID, _ := testutil.CreateTestSurvey(t, env.db, author.UserID, "Live", true, textQ("first"), scaleQ("second"))
	draftID, _ := testutil.CreateTestSurvey(t, env.db, author.UserID, "Draft", false, textQ("first"))

	t.Run("published", func(t *testing.T) {
		req := as(testutil.MakeRequest("GET", "/surveys/"+publishedID+"/take", nil, nil), respondent)
		req.SetPathValue("id", publishedID)
		w := httptest.NewRecorder()

		h.TakeSurvey(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.SurveyWithQuestions
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Questions) != 2 || resp.Questions[0].QuestionText != "first" {
			t.Errorf("Unexpected questions: %+v", resp.Questions)
		}
	})

	t.Run("not published", func(t *testing.T) {
		req := as(testutil.MakeRequest("GET", "/surveys/"+draftID+"/take", nil, nil), respondent)
		req.SetPathValue("id", draftID)
		w := httptest.NewRecorder()

		h.TakeSurvey(w, req)

		testutil.AssertRedirect(t, w, models.PathDashboard)
		var resp models.RedirectResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != notPublishedMessage {
			t.Errorf("Expected notice %q, got %q", notPublishedMessage, resp.Message)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := as(testutil.MakeRequest("GET", "/surveys/nope/take", nil, nil), respondent)
		req.SetPathValue("id", "nope")
		w := httptest.NewRecorder()

		h.TakeSurvey(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestSubmitResponses(t *testing.T) {
	env := newTestEnv(t)
	h := NewResponseHandler(env.db, env.cfg)
	author := env.user(t, "author@example.com", models.RoleSurveyor)
	respondent := env.user(t, "r@example.com", models.RoleRespondent)

	surveyID, qids := testutil.CreateTestSurvey(t, env.db, author.UserID, "Live", true,
		textQ("Name"), scaleQ("Rate"), choiceQ("Color", "Red", "Blue"))
	draftID, draftQIDs := testutil.CreateTestSurvey(t, env.db, author.UserID, "Draft", false, textQ("Name"))

	submit := func(id string, answers map[string]string) *httptest.ResponseRecorder {
		req := as(testutil.MakeRequest("POST", "/surveys/"+id+"/responses", models.SubmitResponsesRequest{Answers: answers}, nil), respondent)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		h.SubmitResponses(w, req)
		return w
	}

	testCases := []struct {
		name        string
		answers     map[string]string
		wantStatus  int
		wantDetails []string
	}{
		{"missing answer", map[string]string{qids[0]: "Ana", qids[2]: "Red"}, http.StatusBadRequest, []string{qids[1]}},
		{"blank answer", map[string]string{qids[0]: "  ", qids[1]: "3", qids[2]: "Red"}, http.StatusBadRequest, []string{qids[0]}},
		{"scale out of range", map[string]string{qids[0]: "Ana", qids[1]: "9", qids[2]: "Red"}, http.StatusBadRequest, []string{qids[1]}},
		{"unknown option", map[string]string{qids[0]: "Ana", qids[1]: "3", qids[2]: "Green"}, http.StatusBadRequest, []string{qids[2]}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := submit(surveyID, tc.answers)

			testutil.AssertStatus(t, w, tc.wantStatus)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if len(resp.Details) != len(tc.wantDetails) || resp.Details[0] != tc.wantDetails[0] {
				t.Errorf("Expected details %v, got %v", tc.wantDetails, resp.Details)
			}
			if n := testutil.CountRows(t, env.db, "responses", "", ""); n != 0 {
				t.Errorf("Rejected submission wrote %d rows", n)
			}
		})
	}

	t.Run("valid submission", func(t *testing.T) {
		w := submit(surveyID, map[string]string{qids[0]: " Ana ", qids[1]: "4", qids[2]: "Blue"})

		testutil.AssertStatus(t, w, http.StatusCreated)
		var resp models.SubmitResponsesResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Count != 3 {
			t.Errorf("Expected count 3, got %d", resp.Count)
		}
		if n := testutil.CountRows(t, env.db, "responses", "submission_id", resp.SubmissionID); n != 3 {
			t.Errorf("Expected 3 rows for submission, got %d", n)
		}

		var answer string
		if err := env.db.QueryRow("SELECT answer_text FROM responses WHERE question_id = $1", qids[0]).Scan(&answer); err != nil {
			t.Fatalf("Failed to read answer: %v", err)
		}
		if answer != "Ana" {
			t.Errorf("Expected trimmed answer 'Ana', got %q", answer)
		}
	})

	t.Run("second submission adds rows", func(t *testing.T) {
		w := submit(surveyID, map[string]string{qids[0]: "Ana", qids[1]: "5", qids[2]: "Red"})

		testutil.AssertStatus(t, w, http.StatusCreated)
		if n := testutil.CountRows(t, env.db, "responses", "user_id", respondent.UserID); n != 6 {
			t.Errorf("Expected 6 rows after two submissions, got %d", n)
		}
	})

	t.Run("unpublished survey", func(t *testing.T) {
		w := submit(draftID, map[string]string{draftQIDs[0]: "Ana"})
		testutil.AssertRedirect(t, w, models.PathDashboard)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := as(httptest.NewRequest("POST", "/surveys/"+surveyID+"/responses", nil), respondent)
		req.SetPathValue("id", surveyID)
		w := httptest.NewRecorder()

		h.SubmitResponses(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
