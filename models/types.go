package models

import "time"

// QuestionType identifies how a question is answered
type QuestionType string

// Question type constants
const (
	QuestionText     QuestionType = "text"
	QuestionMultiple QuestionType = "multiple"
	QuestionScale    QuestionType = "scale"
)

// Scale questions accept integer answers in this range
const (
	ScaleMin = 1
	ScaleMax = 5
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultiple, QuestionScale:
		return true
	}
	return false
}

// Request types

type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=administrator surveyor respondent"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type QuestionInput struct {
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type" validate:"required,oneof=text multiple scale"`
	Options      []string     `json:"options,omitempty"`
}

type CreateSurveyRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	IsPublished bool            `json:"is_published"`
	Questions   []QuestionInput `json:"questions" validate:"dive"`
}

type UpdateSurveyRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	IsPublished bool            `json:"is_published"`
	Questions   []QuestionInput `json:"questions" validate:"dive"`
}

// question_id -> answer text
type SubmitResponsesRequest struct {
	Answers map[string]string `json:"answers"`
}

// Response types

type SessionResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Principal  Principal `json:"principal"`
	RedirectTo string    `json:"redirect_to"`
}

type SignUpResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type CreateSurveyResponse struct {
	SurveyID      string `json:"survey_id"`
	QuestionCount int    `json:"question_count"`
}

type SubmitResponsesResponse struct {
	SubmissionID string `json:"submission_id"`
	Count        int    `json:"count"`
	Message      string `json:"message"`
}

type RedirectResponse struct {
	RedirectTo string `json:"redirect_to"`
	Message    string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AdminStats struct {
	Profiles  int `json:"profiles"`
	Surveys   int `json:"surveys"`
	Responses int `json:"responses"`
}

type UserWithRole struct {
	Profile
	Role Role `json:"role"`
}

type AdminDashboardResponse struct {
	Stats AdminStats     `json:"stats"`
	Users []UserWithRole `json:"users"`
}

type SurveyListResponse struct {
	Surveys []Survey `json:"surveys"`
}

type RespondentSurvey struct {
	Survey
	Answered bool `json:"answered"`
}

type RespondentDashboardResponse struct {
	Profile Profile            `json:"profile"`
	Surveys []RespondentSurvey `json:"surveys"`
}

// Domain types

type Survey struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type Question struct {
	ID           string       `json:"id"`
	SurveyID     string       `json:"survey_id"`
	QuestionText string       `json:"question_text"`
	QuestionType QuestionType `json:"question_type"`
	Options      []string     `json:"options,omitempty"`
	OrderNumber  int          `json:"order_number"`
}

type SurveyWithQuestions struct {
	Survey    Survey     `json:"survey"`
	Questions []Question `json:"questions"`
}

// Response is one answered question from one submission.
// Email is filled from the respondent's profile when loaded for reports.
type Response struct {
	ID           string    `json:"id"`
	SurveyID     string    `json:"survey_id"`
	QuestionID   string    `json:"question_id"`
	UserID       string    `json:"user_id"`
	SubmissionID string    `json:"submission_id"`
	AnswerText   string    `json:"answer_text"`
	CreatedAt    time.Time `json:"created_at"`
	Email        string    `json:"email,omitempty"`
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Principal is the authenticated user behind a session
type Principal struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Role      Role   `json:"role"`
	SessionID string `json:"-"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}
