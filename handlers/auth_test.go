// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/session"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func TestSignUp(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.sessions, env.cfg)
	env.user(t, "taken@example.com", models.RoleRespondent)

	valid := models.SignUpRequest{
		Email:           "new@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "New User",
		Role:            "surveyor",
	}

	testCases := []struct {
		name       string
		mutate     func(*models.SignUpRequest)
		wantStatus int
	}{
		{"success", func(*models.SignUpRequest) {}, http.StatusCreated},
		{"email taken", func(r *models.SignUpRequest) { r.Email = "taken@example.com" }, http.StatusConflict},
		{"invalid email", func(r *models.SignUpRequest) { r.Email = "not-an-email" }, http.StatusBadRequest},
		{"short password", func(r *models.SignUpRequest) { r.Password, r.ConfirmPassword = "123", "123" }, http.StatusBadRequest},
		{"password mismatch", func(r *models.SignUpRequest) { r.ConfirmPassword = "other1" }, http.StatusBadRequest},
		{"missing role", func(r *models.SignUpRequest) { r.Role = "" }, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			w := httptest.NewRecorder()
			h.SignUp(w, testutil.MakeRequest("POST", "/auth/sign-up", req, nil))

			testutil.AssertStatus(t, w, tc.wantStatus)
		})
	}

	if n := testutil.CountRows(t, env.db, "profiles", "email", "new@example.com"); n != 1 {
		t.Errorf("Expected 1 profile for new@example.com, got %d", n)
	}
}

func TestSignIn_RedirectsToRoleHome(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.sessions, env.cfg)

	testCases := []struct {
		email string
		role  models.Role
		home  string
	}{
		{"admin@example.com", models.RoleAdministrator, models.PathAdminHome},
		{"surveyor@example.com", models.RoleSurveyor, models.PathSurveyorHome},
		{"respondent@example.com", models.RoleRespondent, models.PathRespondentHome},
		{"norole@example.com", models.RoleNone, models.PathRespondentHome},
	}

	for _, tc := range testCases {
		t.Run(tc.email, func(t *testing.T) {
			env.user(t, tc.email, tc.role)

			w := httptest.NewRecorder()
			h.SignIn(w, testutil.MakeRequest("POST", "/auth/sign-in", models.SignInRequest{
				Email:    tc.email,
				Password: testutil.TestPassword,
			}, nil))

			testutil.AssertStatus(t, w, http.StatusOK)

			var resp models.SessionResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.RedirectTo != tc.home {
				t.Errorf("Expected redirect_to %s, got %s", tc.home, resp.RedirectTo)
			}
			if resp.Token == "" || resp.Principal.Role != tc.role {
				t.Errorf("Unexpected session response: %+v", resp)
			}

			var cookie *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == middleware.SessionCookie {
					cookie = c
				}
			}
			if cookie == nil || cookie.Value != resp.Token || !cookie.HttpOnly {
				t.Errorf("Expected HttpOnly session cookie, got %+v", cookie)
			}
		})
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.sessions, env.cfg)
	env.user(t, "ana@example.com", models.RoleSurveyor)

	w := httptest.NewRecorder()
	h.SignIn(w, testutil.MakeRequest("POST", "/auth/sign-in", models.SignInRequest{
		Email:    "ana@example.com",
		Password: "wrong-password",
	}, nil))

	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "invalid credentials" {
		t.Errorf("Expected message 'invalid credentials', got '%s'", resp.Message)
	}
}

func TestSignOut(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.sessions, env.cfg)
	env.user(t, "bo@example.com", models.RoleRespondent)

	s, err := env.sessions.SignIn(context.Background(), "bo@example.com", testutil.TestPassword)
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	w := httptest.NewRecorder()
	h.SignOut(w, as(testutil.MakeRequest("POST", "/auth/sign-out", nil, nil), s.Principal))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.RedirectResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.RedirectTo != models.PathSignIn {
		t.Errorf("Expected redirect_to %s, got %s", models.PathSignIn, resp.RedirectTo)
	}

	if _, err := env.sessions.Resolve(context.Background(), s.Token); !errors.Is(err, session.ErrUnauthenticated) {
		t.Errorf("Session still valid after sign out: %v", err)
	}
}

func TestCurrentSession(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.sessions, env.cfg)
	p := env.user(t, "cy@example.com", models.RoleSurveyor)

	w := httptest.NewRecorder()
	h.CurrentSession(w, as(testutil.MakeRequest("GET", "/auth/session", nil, nil), p))

	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Principal
	testutil.AssertJSON(t, w, &got)
	if got.UserID != p.UserID || got.Role != models.RoleSurveyor {
		t.Errorf("Unexpected principal: %+v", got)
	}
}

func TestPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	h := NewAuthHandler(env.sessions, env.cfg)
	env.user(t, "di@example.com", models.RoleRespondent)

	t.Run("request is accepted for any email", func(t *testing.T) {
		for _, email := range []string{"di@example.com", "ghost@example.com"} {
			w := httptest.NewRecorder()
			h.RequestPasswordReset(w, testutil.MakeRequest("POST", "/auth/password-reset", models.PasswordResetRequest{Email: email}, nil))
			testutil.AssertStatus(t, w, http.StatusAccepted)
		}
		if n := testutil.CountRows(t, env.db, "password_resets", "", ""); n != 1 {
			t.Errorf("Expected 1 stored reset, got %d", n)
		}
	})

	t.Run("confirm with valid token", func(t *testing.T) {
		token, err := env.sessions.RequestPasswordReset(context.Background(), "di@example.com")
		if err != nil {
			t.Fatalf("RequestPasswordReset() error = %v", err)
		}

		w := httptest.NewRecorder()
		h.ConfirmPasswordReset(w, testutil.MakeRequest("POST", "/auth/password-reset/confirm", models.PasswordResetConfirmRequest{
			Token:    token,
			Password: "fresh-secret",
		}, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		if _, err := env.sessions.SignIn(context.Background(), "di@example.com", "fresh-secret"); err != nil {
			t.Errorf("Sign in with new password failed: %v", err)
		}
	})

	t.Run("confirm with bad token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ConfirmPasswordReset(w, testutil.MakeRequest("POST", "/auth/password-reset/confirm", models.PasswordResetConfirmRequest{
			Token:    "bogus",
			Password: "fresh-secret",
		}, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
