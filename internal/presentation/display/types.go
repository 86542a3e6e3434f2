package display

import (
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
)

// DisplayConfig contains configuration for the terminal view
type DisplayConfig struct {
	Timezone   string
	TimeFormat string // "24h" or "12h"
	Color      bool
	Width      int // 0 means detect from the terminal
}

// View is everything one frame shows. It is rebuilt every tick from the cached timeline.
type View struct {
	Now        time.Time
	Window     model.TimeRange
	UserID     string
	Rows       []timeline.PackedRow
	Active     []model.ProcessedDose
	Limits     []model.LimitStatus
	Colors     map[string]string // theme name to #rrggbb
	EntryCount int
	DoseCount  int
	LastUpdate time.Time
	Loading    bool
	Paused     bool
	Message    string
}
