package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-dose-monitor/internal/util"
)

// SummaryFormatter prints each row as a block of "header: value" lines
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, report *Report) error {
	var b strings.Builder

	if report.Title != "" {
		b.WriteString(strings.Repeat("=", 60) + "\n")
		b.WriteString(report.Title + "\n")
		b.WriteString(strings.Repeat("=", 60) + "\n")
	}

	labelWidth := 0
	for _, h := range report.Headers {
		if w := util.GetDisplayWidth(h); w > labelWidth {
			labelWidth = w
		}
	}

	for i, row := range report.Rows {
		if i > 0 {
			b.WriteString("\n")
		}
		for j, h := range report.Headers {
			if j >= len(row) || row[j] == "" {
				continue
			}
			fmt.Fprintf(&b, "%s  %s\n", util.PadRight(h+":", labelWidth+1), row[j])
		}
	}

	if len(report.Footer) > 0 {
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for _, line := range report.Footer {
			b.WriteString(line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
