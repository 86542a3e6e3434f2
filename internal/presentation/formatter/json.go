package formatter

import (
	"io"

	"github.com/bytedance/sonic"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the report payload as indented JSON, falling back to the table rows
func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	payload := report.Payload
	if payload == nil {
		payload = rowsAsObjects(report)
	}

	data, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func rowsAsObjects(report *Report) []map[string]string {
	out := make([]map[string]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		obj := make(map[string]string, len(report.Headers))
		for i, h := range report.Headers {
			if i < len(row) {
				obj[h] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}
