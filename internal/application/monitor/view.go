package monitor

import (
	"fmt"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/timerange"
	"github.com/penwyp/go-dose-monitor/internal/presentation/display"
)

// ComposeView derives one frame from a snapshot. Visibility, active state and
// limit windows move with now; the projected timeline does not.
func ComposeView(snap *Snapshot, now time.Time, lookBack, lookAhead time.Duration) display.View {
	window := timerange.Around(now, lookBack, lookAhead)
	view := display.View{
		Now:    now,
		Window: window,
	}
	if snap == nil {
		return view
	}

	view.UserID = snap.UserID
	view.Rows = snap.Timeline.Visible(window)
	view.Active = snap.Timeline.Active(now)
	view.EntryCount = len(snap.Entries)
	view.DoseCount = len(snap.Timeline.Doses)
	view.LastUpdate = snap.LoadedAt

	view.Colors = make(map[string]string)
	for _, theme := range snap.Catalog.Themes() {
		view.Colors[theme.Name] = theme.Color
	}

	if snap.User != nil {
		view.Limits = snap.Aggregator.EvaluateDoseLimits(snap.Doses, snap.User.GlobalLimits, now)
	} else {
		view.Message = fmt.Sprintf("User %q is not configured; showing every catalog medication", snap.UserID)
	}
	return view
}
