// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import "github.com/danielhkuo/quickly-survey/models"

// Report is the results view of one survey
type Report struct {
	Survey           models.Survey `json:"survey"`
	Matrix                         // questions and respondent rows
	Averages         []Average     `json:"averages"`
	TotalRespondents int           `json:"total_respondents"`
}

// Build assembles the results view from raw rows
func Build(survey models.Survey, questions []models.Question, responses []models.Response) Report {
	m := BuildMatrix(questions, responses)
	return Report{
		Survey:           survey,
		Matrix:           m,
		Averages:         ScaleAverages(m),
		TotalRespondents: len(m.Rows),
	}
}
