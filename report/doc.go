// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package report turns stored responses into a survey's results.

	responses, err := report.LoadResponses(ctx, db, surveyID)
	rep := report.Build(survey, questions, responses)

BuildMatrix groups the response rows into one row per respondent, with
one column per question in question order. ScaleAverages computes the
mean of each scale question, or "N/A" when nothing numeric was answered.

WriteCSV and WritePDF render the matrix; both return ErrNoResponses for
an empty survey. Filename builds the download name:

	report.Filename("Team Pulse", now) // resultados_Team_Pulse_20250301.csv
*/
package report
