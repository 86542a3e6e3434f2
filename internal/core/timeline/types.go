package timeline

import (
	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// Lane is a run of doses of one row in which no two intervals strictly overlap
type Lane []model.ProcessedDose

// PackedRow is a timeline row split into lanes
type PackedRow struct {
	model.TimelineRow
	Lanes []Lane `json:"lanes"`
}

// Timeline is the cacheable result of projecting a set of log entries
type Timeline struct {
	Parsed []model.ParsedDose    `json:"parsed"` // resolver output, kept for windowed intake totals
	Doses  []model.ProcessedDose `json:"doses"`
	Rows   []PackedRow           `json:"rows"`
}
