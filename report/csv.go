// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the day-first timestamp format used in exports
const DateLayout = "02/01/2006 15:04"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename returns the download name for a CSV export
func Filename(title string, now time.Time) string {
	return filename(title, now, "csv")
}

// PDFFilename returns the download name for a PDF export
func PDFFilename(title string, now time.Time) string {
	return filename(title, now, "pdf")
}

func filename(title string, now time.Time, ext string) string {
	slug := whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_")
	return fmt.Sprintf("resultados_%s_%s.%s", slug, now.Format("20060102"), ext)
}

// WriteCSV writes the matrix as CSV: an Email and Date column followed by
// one column per question. Every field is quoted.
func WriteCSV(w io.Writer, m Matrix) error {
	if len(m.Rows) == 0 {
		return ErrNoResponses
	}

	bw := bufio.NewWriter(w)

	header := make([]string, 0, len(m.Questions)+2)
	header = append(header, "Email", "Date")
	for _, q := range m.Questions {
		header = append(header, q.QuestionText)
	}
	writeRecord(bw, header)

	for _, row := range m.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Email, row.SubmittedAt.Format(DateLayout))
		for _, q := range m.Questions {
			record = append(record, row.Answers[q.ID])
		}
		writeRecord(bw, record)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}
