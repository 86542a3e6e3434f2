// Package timerange holds the interval predicates shared by the pipeline stages.
//
// Two overlap tests exist on purpose. IntersectsStrict treats intervals as
// half-open and drives lane packing; IntersectsInclusive treats both ends as
// closed and drives visibility and "active now" checks.
package timerange

import (
	"sort"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// IntersectsStrict reports a.Start < b.End && a.End > b.Start. Touching endpoints do not overlap.
func IntersectsStrict(a, b model.TimeRange) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// IntersectsInclusive reports a.Start <= b.End && a.End >= b.Start. Touching endpoints overlap.
func IntersectsInclusive(a, b model.TimeRange) bool {
	return !a.Start.After(b.End) && !a.End.Before(b.Start)
}

// Around returns [now - lookBack, now + lookAhead]
func Around(now time.Time, lookBack, lookAhead time.Duration) model.TimeRange {
	return model.TimeRange{Start: now.Add(-lookBack), End: now.Add(lookAhead)}
}

// Instant returns the degenerate range [t, t]
func Instant(t time.Time) model.TimeRange {
	return model.TimeRange{Start: t, End: t}
}

// FilterDoses keeps the doses that inclusively intersect the window, in input order
func FilterDoses(doses []model.ProcessedDose, window model.TimeRange) []model.ProcessedDose {
	out := make([]model.ProcessedDose, 0, len(doses))
	for _, d := range doses {
		if IntersectsInclusive(d.Range(), window) {
			out = append(out, d)
		}
	}
	return out
}

// IsActive reports whether the dose interval contains now, both ends included
func IsActive(dose model.ProcessedDose, now time.Time) bool {
	return IntersectsInclusive(dose.Range(), Instant(now))
}

// ActiveDoses keeps the doses active at now
func ActiveDoses(doses []model.ProcessedDose, now time.Time) []model.ProcessedDose {
	return FilterDoses(doses, Instant(now))
}

// MaxDepth returns the largest number of intervals that strictly overlap at one instant
func MaxDepth(doses []model.ProcessedDose) int {
	type event struct {
		at    time.Time
		delta int
	}

	events := make([]event, 0, 2*len(doses))
	for _, d := range doses {
		events = append(events, event{at: d.StartTime, delta: 1}, event{at: d.EndTime, delta: -1})
	}

	// Ends sort before starts at the same instant, matching the half-open convention
	sort.Slice(events, func(i, j int) bool {
		if events[i].at.Equal(events[j].at) {
			return events[i].delta < events[j].delta
		}
		return events[i].at.Before(events[j].at)
	})

	depth, best := 0, 0
	for _, e := range events {
		depth += e.delta
		if depth > best {
			best = depth
		}
	}
	return best
}
