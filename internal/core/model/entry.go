package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// LogEntry is one free-text medication log line owned by an external source
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RawText   string    `json:"text"`
}

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}

// rawLogEntry mirrors the accepted wire shapes of an entry line
type rawLogEntry struct {
	ID        string          `json:"id"`
	Timestamp FlexibleInstant `json:"timestamp"`
	Text      string          `json:"text"`
	RawText   string          `json:"rawText"`
}

// UnmarshalJSON accepts both "text" and "rawText" keys for the entry body
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var raw rawLogEntry
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.ID = raw.ID
	e.Timestamp = time.Time(raw.Timestamp)
	e.RawText = raw.Text
	if e.RawText == "" {
		e.RawText = raw.RawText
	}
	return nil
}

// FlexibleInstant decodes either an RFC3339 string or unix milliseconds
type FlexibleInstant time.Time

func (fi *FlexibleInstant) UnmarshalJSON(data []byte) error {
	// First try to parse as RFC3339 string
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*fi = FlexibleInstant(time.Time{})
			return nil
		}
		ts, err := time.Parse(time.RFC3339Nano, str)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", str, err)
		}
		*fi = FlexibleInstant(ts)
		return nil
	}

	// Fall back to unix milliseconds
	var millis int64
	if err := sonic.Unmarshal(data, &millis); err == nil {
		*fi = FlexibleInstant(time.UnixMilli(millis).UTC())
		return nil
	}

	return fmt.Errorf("timestamp must be either RFC3339 string or unix milliseconds")
}
