// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package surveys

import (
	"errors"
	"strings"

	"github.com/danielhkuo/quickly-survey/models"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrNoQuestions     = errors.New("at least one question is required")
	ErrOptionsRequired = errors.New("multiple choice questions need at least one option")
	ErrInvalidType     = errors.New("unknown question type")
)

// Draft is a survey being authored. Nothing is persisted until the
// handler saves a draft that passes Validate.
type Draft struct {
	Title       string
	Description string
	IsPublished bool
	Questions   []models.Question

	// added counts every question ever appended, so order numbers keep
	// increasing after removals.
	added int
}

// NewDraft starts a draft whose order numbers continue after next.
// Editing an existing survey passes max(order_number)+1.
func NewDraft(title, description string, published bool, next int) *Draft {
	return &Draft{
		Title:       title,
		Description: description,
		IsPublished: published,
		added:       next,
	}
}

// AddQuestion appends a question and reports whether it was accepted.
// Whitespace-only text is ignored.
func (d *Draft) AddQuestion(in models.QuestionInput) (bool, error) {
	text := strings.TrimSpace(in.QuestionText)
	if text == "" {
		return false, nil
	}
	if !in.QuestionType.Valid() {
		return false, ErrInvalidType
	}

	var options []string
	if in.QuestionType == models.QuestionMultiple {
		options = cleanOptions(in.Options)
		if len(options) == 0 {
			return false, ErrOptionsRequired
		}
	}

	d.Questions = append(d.Questions, models.Question{
		QuestionText: text,
		QuestionType: in.QuestionType,
		Options:      options,
		OrderNumber:  d.added,
	})
	d.added++
	return true, nil
}

// RemoveQuestion drops the question at index. Remaining order numbers are
// left as they are, so gaps are expected.
func (d *Draft) RemoveQuestion(index int) bool {
	if index < 0 || index >= len(d.Questions) {
		return false
	}
	d.Questions = append(d.Questions[:index], d.Questions[index+1:]...)
	return true
}

// Validate checks the draft before any database work
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}
	return nil
}

func cleanOptions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
