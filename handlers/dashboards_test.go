// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func TestAdminDashboard(t *testing.T) {
	env := newTestEnv(t)
	h := NewDashboardHandler(env.db, env.cfg)

	admin := env.user(t, "admin@example.com", models.RoleAdministrator)
	surveyor := env.user(t, "surveyor@example.com", models.RoleSurveyor)
	respondent := env.user(t, "respondent@example.com", models.RoleRespondent)

	surveyID, qids := testutil.CreateTestSurvey(t, env.db, surveyor.UserID, "Feedback", true, textQ("Name"), scaleQ("Rate"))
	testutil.AddTestResponse(t, env.db, surveyID, qids[0], respondent.UserID, "s1", "Ana", time.Now())
	testutil.AddTestResponse(t, env.db, surveyID, qids[1], respondent.UserID, "s1", "4", time.Now())

	w := httptest.NewRecorder()
	h.Admin(w, as(testutil.MakeRequest("GET", "/admin/dashboard", nil, nil), admin))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AdminDashboardResponse
	testutil.AssertJSON(t, w, &resp)

	want := models.AdminStats{Profiles: 3, Surveys: 1, Responses: 2}
	if resp.Stats != want {
		t.Errorf("Expected stats %+v, got %+v", want, resp.Stats)
	}
	if len(resp.Users) != 3 {
		t.Fatalf("Expected 3 users, got %d", len(resp.Users))
	}
	roles := map[string]models.Role{}
	for _, u := range resp.Users {
		roles[u.Email] = u.Role
	}
	if roles["surveyor@example.com"] != models.RoleSurveyor || roles["admin@example.com"] != models.RoleAdministrator {
		t.Errorf("Unexpected roles: %v", roles)
	}
}

func TestSurveyorDashboard_OnlyOwnSurveys(t *testing.T) {
	env := newTestEnv(t)
	h := NewDashboardHandler(env.db, env.cfg)

	mine := env.user(t, "mine@example.com", models.RoleSurveyor)
	other := env.user(t, "other@example.com", models.RoleSurveyor)

	testutil.CreateTestSurvey(t, env.db, mine.UserID, "Draft", false, textQ("q"))
	testutil.CreateTestSurvey(t, env.db, mine.UserID, "Live", true, textQ("q"))
	testutil.CreateTestSurvey(t, env.db, other.UserID, "Theirs", true, textQ("q"))

	w := httptest.NewRecorder()
	h.Surveyor(w, as(testutil.MakeRequest("GET", "/surveys/dashboard", nil, nil), mine))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SurveyListResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Surveys) != 2 {
		t.Fatalf("Expected 2 surveys, got %d", len(resp.Surveys))
	}
	for _, s := range resp.Surveys {
		if s.CreatedBy != mine.UserID {
			t.Errorf("Survey %s belongs to %s", s.Title, s.CreatedBy)
		}
	}
}

func TestRespondentDashboard_AnsweredFlag(t *testing.T) {
	env := newTestEnv(t)
	h := NewDashboardHandler(env.db, env.cfg)

	surveyor := env.user(t, "surveyor@example.com", models.RoleSurveyor)
	respondent := env.user(t, "respondent@example.com", models.RoleRespondent)

	answeredID, qids := testutil.CreateTestSurvey(t, env.db, surveyor.UserID, "Answered", true, textQ("q"))
	testutil.CreateTestSurvey(t, env.db, surveyor.UserID, "Open", true, textQ("q"))
	testutil.CreateTestSurvey(t, env.db, surveyor.UserID, "Hidden", false, textQ("q"))
	testutil.AddTestResponse(t, env.db, answeredID, qids[0], respondent.UserID, "s1", "done", time.Now())

	w := httptest.NewRecorder()
	h.Respondent(w, as(testutil.MakeRequest("GET", "/encuestas", nil, nil), respondent))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RespondentDashboardResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Profile.Email != "respondent@example.com" {
		t.Errorf("Expected profile email, got %q", resp.Profile.Email)
	}
	if len(resp.Surveys) != 2 {
		t.Fatalf("Expected 2 published surveys, got %d", len(resp.Surveys))
	}
	for _, s := range resp.Surveys {
		if want := s.ID == answeredID; s.Answered != want {
			t.Errorf("Survey %s answered = %v, want %v", s.Title, s.Answered, want)
		}
	}
}

func TestOverviewDashboard(t *testing.T) {
	env := newTestEnv(t)
	h := NewDashboardHandler(env.db, env.cfg)

	me := env.user(t, "me@example.com", models.RoleSurveyor)
	other := env.user(t, "other@example.com", models.RoleSurveyor)

	testutil.CreateTestSurvey(t, env.db, me.UserID, "My draft", false, textQ("q"))
	testutil.CreateTestSurvey(t, env.db, other.UserID, "Their live", true, textQ("q"))
	testutil.CreateTestSurvey(t, env.db, other.UserID, "Their draft", false, textQ("q"))

	w := httptest.NewRecorder()
	h.Overview(w, as(testutil.MakeRequest("GET", "/dashboard", nil, nil), me))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.SurveyListResponse
	testutil.AssertJSON(t, w, &resp)

	titles := map[string]bool{}
	for _, s := range resp.Surveys {
		titles[s.Title] = true
	}
	if len(titles) != 2 || !titles["My draft"] || !titles["Their live"] {
		t.Errorf("Unexpected surveys: %v", titles)
	}
}
