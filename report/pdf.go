// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the scale summary and every respondent's answers as an
// A4 document titled with the survey title.
func WritePDF(w io.Writer, title string, m Matrix) error {
	if len(m.Rows) == 0 {
		return ErrNoResponses
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 10, tr(title), "", "L", false)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "Respondents: "+strconv.Itoa(len(m.Rows)))
	pdf.Ln(12)

	if averages := ScaleAverages(m); len(averages) > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, "Scale averages")
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 11)
		for _, a := range averages {
			pdf.CellFormat(140, 7, tr(a.QuestionText), "1", 0, "L", false, 0, "")
			pdf.CellFormat(25, 7, a.Display, "1", 0, "R", false, 0, "")
			pdf.CellFormat(25, 7, fmt.Sprintf("n=%d", a.Samples), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	for _, row := range m.Rows {
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(0, 7, tr(row.Email+"  "+row.SubmittedAt.Format(DateLayout)), "B", "L", false)
		pdf.SetFont("Arial", "", 11)
		for _, q := range m.Questions {
			pdf.MultiCell(0, 6, tr(q.QuestionText+": "+row.Answers[q.ID]), "", "L", false)
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
