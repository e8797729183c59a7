// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Survey API.

# Handler Types

  - AuthHandler: Sign-up, sign-in, sign-out and password resets
  - DashboardHandler: The home screen for each role
  - SurveyHandler: Survey authoring (create, read, update, delete)
  - ResponseHandler: Taking a published survey and submitting answers
  - ReportHandler: Aggregated results and CSV/PDF export

Handlers other than AuthHandler take *sql.DB and Config:

	surveyHandler := handlers.NewSurveyHandler(db, cfg)

Every handler behind a gate reads the caller with middleware.PrincipalFrom.

# Ownership

Only the creator of a survey may edit, delete or report on it. Anyone
else is answered with a 303 redirect to /dashboard and a message, and the
check runs before any question or response is read.

# Submissions

One submission writes every answer in a single transaction. The rows share
a submission_id and a timestamp, so a partial submission is never stored.

# Exports

	GET /reports/{id}/export?format=csv
	GET /reports/{id}/export?format=pdf

Both formats return 404 when the survey has no responses yet.
*/
package handlers
