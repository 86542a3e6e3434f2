package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-dose-monitor/internal/util"
)

// TableFormatter draws a box table sized to the widest cell of each column
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

func (f *TableFormatter) Format(w io.Writer, report *Report) error {
	if report.Title != "" {
		if _, err := fmt.Fprintln(w, report.Title); err != nil {
			return err
		}
	}

	widths := f.calculateColumnWidths(report)

	var b strings.Builder
	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, report.Headers, widths, nil)
	f.writeBorder(&b, widths, "middle")
	for _, row := range report.Rows {
		f.writeRow(&b, row, widths, report.Numeric)
	}
	f.writeBorder(&b, widths, "bottom")
	for _, line := range report.Footer {
		b.WriteString(line)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *TableFormatter) calculateColumnWidths(report *Report) []int {
	widths := make([]int, len(report.Headers))
	for i, h := range report.Headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range report.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := util.GetDisplayWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// writeBorder writes table borders (top, middle, bottom)
func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

// writeRow writes a row; numeric columns are right-aligned
func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int, numeric map[int]bool) {
	b.WriteString("│")
	for i, width := range widths {
		value := ""
		if i < len(values) {
			value = values[i]
		}
		if numeric[i] {
			value = util.PadLeft(value, width)
		} else {
			value = util.PadRight(value, width)
		}
		b.WriteString(" " + value + " │")
	}
	b.WriteString("\n")
}
