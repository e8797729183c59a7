// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package surveys

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-survey/models"
)

var (
	ErrUnanswered    = errors.New("all questions must be answered")
	ErrInvalidAnswer = errors.New("answer is not valid for its question")
)

// AnswerError lists the questions that blocked a submission
type AnswerError struct {
	Err         error
	QuestionIDs []string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, strings.Join(e.QuestionIDs, ", "))
}

func (e *AnswerError) Unwrap() error { return e.Err }

// ValidateAnswers checks a submission against the survey's questions and
// returns the trimmed answer for every question. Answers keyed by ids that
// are not in questions are dropped.
func ValidateAnswers(questions []models.Question, answers map[string]string) (map[string]string, error) {
	clean := make(map[string]string, len(questions))
	var missing, invalid []string

	for _, q := range questions {
		a := strings.TrimSpace(answers[q.ID])
		if a == "" {
			missing = append(missing, q.ID)
			continue
		}
		if !answerFits(q, a) {
			invalid = append(invalid, q.ID)
			continue
		}
		clean[q.ID] = a
	}

	if len(missing) > 0 {
		return nil, &AnswerError{Err: ErrUnanswered, QuestionIDs: missing}
	}
	if len(invalid) > 0 {
		return nil, &AnswerError{Err: ErrInvalidAnswer, QuestionIDs: invalid}
	}
	return clean, nil
}

func answerFits(q models.Question, a string) bool {
	switch q.QuestionType {
	case models.QuestionScale:
		n, err := strconv.Atoi(a)
		return err == nil && n >= models.ScaleMin && n <= models.ScaleMax
	case models.QuestionMultiple:
		return slices.Contains(q.Options, a)
	default:
		return true
	}
}

// EncodeOptions renders options for the questions.options column.
// Questions without options store NULL.
func EncodeOptions(options []string) (*string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	s := string(b)
	return &s, nil
}

// DecodeOptions parses a questions.options column value
func DecodeOptions(raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal([]byte(*raw), &options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return options, nil
}
