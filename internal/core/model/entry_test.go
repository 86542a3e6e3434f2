package model

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEntryUnmarshalJSON(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name          string
		jsonData      string
		expected      LogEntry
		expectError   bool
		errorContains string
	}{
		{
			name:     "text_key",
			jsonData: `{"id":"e1","timestamp":"2024-03-01T08:30:00Z","text":"Percocet 5-325 (1 tablet)"}`,
			expected: LogEntry{ID: "e1", Timestamp: ts, RawText: "Percocet 5-325 (1 tablet)"},
		},
		{
			name:     "raw_text_key",
			jsonData: `{"id":"e2","timestamp":"2024-03-01T08:30:00Z","rawText":"Tylenol 650mg"}`,
			expected: LogEntry{ID: "e2", Timestamp: ts, RawText: "Tylenol 650mg"},
		},
		{
			name:     "text_wins_over_raw_text",
			jsonData: `{"id":"e3","timestamp":"2024-03-01T08:30:00Z","text":"a","rawText":"b"}`,
			expected: LogEntry{ID: "e3", Timestamp: ts, RawText: "a"},
		},
		{
			name:     "unix_millis_timestamp",
			jsonData: `{"id":"e4","timestamp":1709281800000,"text":"Advil 400mg"}`,
			expected: LogEntry{ID: "e4", Timestamp: ts, RawText: "Advil 400mg"},
		},
		{
			name:          "invalid_timestamp",
			jsonData:      `{"id":"e5","timestamp":"yesterday","text":"x"}`,
			expectError:   true,
			errorContains: "invalid timestamp",
		},
		{
			name:          "timestamp_wrong_type",
			jsonData:      `{"id":"e6","timestamp":{"a":1},"text":"x"}`,
			expectError:   true,
			errorContains: "RFC3339 string or unix milliseconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entry LogEntry
			err := sonic.Unmarshal([]byte(tt.jsonData), &entry)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected.ID, entry.ID)
			assert.True(t, tt.expected.Timestamp.Equal(entry.Timestamp), "timestamp mismatch: %v", entry.Timestamp)
			assert.Equal(t, tt.expected.RawText, entry.RawText)
		})
	}
}

func TestEffectiveDurationHours(t *testing.T) {
	assert.Equal(t, DefaultActiveDurationHours, EffectiveDurationHours(nil))
	assert.Equal(t, DefaultActiveDurationHours, EffectiveDurationHours(Float64Ptr(0)))
	assert.Equal(t, DefaultActiveDurationHours, EffectiveDurationHours(Float64Ptr(-2)))
	assert.Equal(t, 4.0, EffectiveDurationHours(Float64Ptr(4)))
	assert.Equal(t, 0.5, EffectiveDurationHours(Float64Ptr(0.5)))
}

func TestHoursToDuration(t *testing.T) {
	assert.Equal(t, 4*time.Hour, HoursToDuration(4))
	assert.Equal(t, 90*time.Minute, HoursToDuration(1.5))
	assert.Equal(t, 24*time.Hour, GlobalLimit{WindowHours: 24}.Window())
}
