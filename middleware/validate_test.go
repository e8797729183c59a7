// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-survey/models"
)

func TestValidateStruct_SignUp(t *testing.T) {
	valid := models.SignUpRequest{
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "Ana",
		Role:            "surveyor",
	}

	testCases := []struct {
		name   string
		mutate func(*models.SignUpRequest)
		want   string
	}{
		{"valid", func(*models.SignUpRequest) {}, ""},
		{"bad email", func(r *models.SignUpRequest) { r.Email = "nope" }, "email must be a valid email"},
		{"short password", func(r *models.SignUpRequest) { r.Password, r.ConfirmPassword = "12345", "12345" }, "password must be at least 6 characters"},
		{"mismatch", func(r *models.SignUpRequest) { r.ConfirmPassword = "secret2" }, "confirm_password does not match"},
		{"missing name", func(r *models.SignUpRequest) { r.FullName = "" }, "full_name is required"},
		{"missing role", func(r *models.SignUpRequest) { r.Role = "" }, "role is required"},
		{"unknown role", func(r *models.SignUpRequest) { r.Role = "owner" }, "role must be one of: administrator surveyor respondent"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			msgs := ValidateStruct(&req)

			if tc.want == "" {
				if len(msgs) != 0 {
					t.Errorf("Expected no errors, got %v", msgs)
				}
				return
			}
			if len(msgs) != 1 || msgs[0] != tc.want {
				t.Errorf("Expected [%s], got %v", tc.want, msgs)
			}
		})
	}
}

func TestValidateStruct_QuestionTypes(t *testing.T) {
	req := models.CreateSurveyRequest{
		Title: "T",
		Questions: []models.QuestionInput{
			{QuestionText: "ok", QuestionType: models.QuestionScale},
			{QuestionText: "bad", QuestionType: "slider"},
		},
	}

	msgs := ValidateStruct(&req)
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0], "question_type must be one of") {
		t.Errorf("Unexpected messages: %v", msgs)
	}
}

func TestDecodeValid(t *testing.T) {
	testCases := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
	}{
		{"valid", `{"email":"a@example.com","password":"x"}`, true, http.StatusOK},
		{"invalid json", `{`, false, http.StatusBadRequest},
		{"fails validation", `{"email":"a@example.com"}`, false, http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/auth/sign-in", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var parsed models.SignInRequest
			ok := DecodeValid(w, req, &parsed)

			if ok != tc.wantOK {
				t.Errorf("DecodeValid() = %v, want %v", ok, tc.wantOK)
			}
			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}
