// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-survey/models"
)

// NotApplicable is displayed for a scale question nobody answered numerically
const NotApplicable = "N/A"

// Average summarizes one scale question
type Average struct {
	QuestionID   string  `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Mean         float64 `json:"mean"`
	Samples      int     `json:"samples"`
	Valid        bool    `json:"valid"`
	Display      string  `json:"display"`
}

// ScaleAverages returns the mean answer of every scale question in the
// matrix, rounded to two decimals. Answers that do not parse as numbers
// are skipped; a question with no samples is marked not valid.
func ScaleAverages(m Matrix) []Average {
	out := make([]Average, 0)
	for _, q := range m.Questions {
		if q.QuestionType != models.QuestionScale {
			continue
		}

		var sum float64
		var n int
		for _, row := range m.Rows {
			v, ok := parseScore(row.Answers[q.ID])
			if !ok {
				continue
			}
			sum += v
			n++
		}

		avg := Average{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			Samples:      n,
			Display:      NotApplicable,
		}
		if n > 0 {
			avg.Mean = math.Round(sum/float64(n)*100) / 100
			avg.Valid = true
			avg.Display = strconv.FormatFloat(avg.Mean, 'f', 2, 64)
		}
		out = append(out, avg)
	}
	return out
}

func parseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
