// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/testutil"
)

// TestConcurrentSubmissions verifies that simultaneous submissions from
// different respondents are each stored whole, with no lost or mixed rows
func TestConcurrentSubmissions(t *testing.T) {
	env := newTestEnv(t)
	h := NewResponseHandler(env.db, env.cfg)

	owner := env.user(t, "owner@example.com", models.RoleSurveyor)
	surveyID, qids := testutil.CreateTestSurvey(t, env.db, owner.UserID, "Load Test", true,
		scaleQ("Rating"), choiceQ("Color", "Red", "Blue"), textQ("Comments"))

	numRespondents := 8
	respondents := make([]models.Principal, numRespondents)
	for i := range respondents {
		respondents[i] = env.user(t, fmt.Sprintf("r%d@example.com", i), models.RoleRespondent)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRespondents; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			answers := map[string]string{
				qids[0]: fmt.Sprint(idx%5 + 1),
				qids[1]: []string{"Red", "Blue"}[idx%2],
				qids[2]: fmt.Sprintf("respondent %d", idx),
			}
			req := as(testutil.MakeRequest("POST", "/surveys/"+surveyID+"/responses",
				models.SubmitResponsesRequest{Answers: answers}, nil), respondents[idx])
			req.SetPathValue("id", surveyID)
			w := httptest.NewRecorder()

			h.SubmitResponses(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else {
				t.Logf("respondent %d: %d %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numRespondents {
		t.Fatalf("Expected %d successful submissions, got %d", numRespondents, successCount.Load())
	}

	if got := testutil.CountRows(t, env.db, "responses", "survey_id", surveyID); got != numRespondents*len(qids) {
		t.Errorf("Expected %d response rows, got %d", numRespondents*len(qids), got)
	}

	// Every submission carries exactly one row per question
	rows, err := env.db.Query(`
		SELECT submission_id, COUNT(*), COUNT(DISTINCT user_id)
		FROM responses WHERE survey_id = $1
		GROUP BY submission_id
	`, surveyID)
	if err != nil {
		t.Fatalf("Failed to group submissions: %v", err)
	}
	defer rows.Close()

	submissions := 0
	for rows.Next() {
		var id string
		var count, users int
		if err := rows.Scan(&id, &count, &users); err != nil {
			t.Fatalf("Failed to scan submission: %v", err)
		}
		if count != len(qids) || users != 1 {
			t.Errorf("Submission %s has %d rows from %d users", id, count, users)
		}
		submissions++
	}
	if submissions != numRespondents {
		t.Errorf("Expected %d submissions, got %d", numRespondents, submissions)
	}
}
