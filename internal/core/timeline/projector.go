package timeline

import (
	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// Project turns a parsed dose into its active interval [Timestamp, Timestamp + duration).
// The duration default is applied by model.EffectiveDurationHours only.
func Project(d model.ParsedDose) model.ProcessedDose {
	end := d.Timestamp.Add(model.HoursToDuration(model.EffectiveDurationHours(d.ActiveDurationHours)))
	if !end.After(d.Timestamp) {
		// sub-nanosecond durations round to zero
		end = d.Timestamp.Add(model.HoursToDuration(model.DefaultActiveDurationHours))
	}

	return model.ProcessedDose{
		EntryID:      d.EntryID,
		MedicationID: d.MedicationID,
		DisplayName:  d.DisplayName,
		StartTime:    d.Timestamp,
		EndTime:      end,
		Amount:       d.Amount,
		Unit:         d.Unit,
		IsConfigured: d.IsConfigured,
		Theme:        d.Theme,
	}
}

// ProjectAll projects every dose, keeping order
func ProjectAll(doses []model.ParsedDose) []model.ProcessedDose {
	out := make([]model.ProcessedDose, 0, len(doses))
	for _, d := range doses {
		out = append(out, Project(d))
	}
	return out
}
