package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-dose-monitor/internal/util"
)

// Report is a tabular projection of a result plus the structured value JSON output encodes
type Report struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Numeric marks right-aligned columns by index
	Numeric map[int]bool
	Footer  []string
	Payload interface{}
}

// Formatter writes a report
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// Supported output formats
const (
	FormatAuto    = "auto"
	FormatTable   = "table"
	FormatJSON    = "json"
	FormatCSV     = "csv"
	FormatSummary = "summary"
)

// NewFormatter returns the formatter for name. "auto" picks a table on a
// terminal and JSON when stdout is piped.
func NewFormatter(name string) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatAuto:
		if util.IsTerminal(os.Stdout) {
			return NewTableFormatter(), nil
		}
		return NewJSONFormatter(), nil
	case FormatTable:
		return NewTableFormatter(), nil
	case FormatJSON:
		return NewJSONFormatter(), nil
	case FormatCSV:
		return NewCSVFormatter(), nil
	case FormatSummary:
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want table, json, csv or summary)", name)
	}
}
