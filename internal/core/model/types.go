package model

import (
	"time"
)

// DoseAmount is the structured quantity pulled out of a mention by an extractor
type DoseAmount struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// ParsedDose is one resolved medication mention of a log entry.
// Amount and ActiveDurationHours are nil when unknown.
type ParsedDose struct {
	EntryID             string    `json:"entryId"`
	MedicationID        string    `json:"medicationId"`
	DisplayName         string    `json:"displayName"`
	Timestamp           time.Time `json:"timestamp"`
	Amount              *float64  `json:"amount,omitempty"`
	Unit                string    `json:"unit"`
	IsConfigured        bool      `json:"isConfigured"`
	ActiveDurationHours *float64  `json:"activeDurationHours,omitempty"`
	Theme               string    `json:"theme"`
}

// ProcessedDose is the half-open active interval [StartTime, EndTime) of a dose.
type ProcessedDose struct {
	EntryID      string    `json:"entryId"`
	MedicationID string    `json:"medicationId"`
	DisplayName  string    `json:"displayName"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Amount       *float64  `json:"amount,omitempty"`
	Unit         string    `json:"unit"`
	IsConfigured bool      `json:"isConfigured"`
	Theme        string    `json:"theme"`
}

// Range returns the dose interval as a TimeRange
func (d ProcessedDose) Range() TimeRange {
	return TimeRange{Start: d.StartTime, End: d.EndTime}
}

// TimelineRow groups the doses of one medication, newest first
type TimelineRow struct {
	MedicationID string          `json:"medicationId"`
	DisplayName  string          `json:"displayName"`
	Theme        string          `json:"theme"`
	IsConfigured bool            `json:"isConfigured"`
	Doses        []ProcessedDose `json:"doses"`
}

// TimeRange is a pair of instants. Whether the end is inclusive depends on the predicate used.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// GlobalLimit caps the amount of one ingredient inside a rolling window
type GlobalLimit struct {
	IngredientName string  `json:"ingredientName" yaml:"ingredientName"`
	MaxAmount      float64 `json:"maxAmount" yaml:"maxAmount"`
	Unit           string  `json:"unit" yaml:"unit"`
	WindowHours    float64 `json:"windowHours" yaml:"windowHours"`
}

// Window returns the rolling window length
func (l GlobalLimit) Window() time.Duration {
	return HoursToDuration(l.WindowHours)
}

// ConsumptionResult is the summed ingredient mass inside a window
type ConsumptionResult struct {
	Total float64 `json:"total"`
	Unit  string  `json:"unit"`
}

// LimitStatus compares a consumption result against its limit
type LimitStatus struct {
	Limit      GlobalLimit       `json:"limit"`
	Consumed   ConsumptionResult `json:"consumed"`
	Remaining  float64           `json:"remaining"`
	Percentage float64           `json:"percentage"`
	Exceeded   bool              `json:"exceeded"`
}
