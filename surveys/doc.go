// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package surveys holds the authoring and answering rules for surveys.

A Draft collects questions before anything is written:

	d := surveys.NewDraft(req.Title, req.Description, req.IsPublished, 0)
	for _, q := range req.Questions {
		d.AddQuestion(q)
	}
	if err := d.Validate(); err != nil {
		// ErrTitleRequired or ErrNoQuestions
	}

Order numbers come from a counter of questions ever added, so removing a
question leaves a gap instead of renumbering.

ValidateAnswers checks a submission: every question needs a non-blank
answer, scale answers must be integers 1-5, and multiple choice answers
must match one of the question's options.
*/
package surveys
