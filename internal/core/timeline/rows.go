package timeline

import (
	"sort"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// BuildRows groups doses into rows. Configured rows follow the order of entries and
// entries without doses are skipped; configured doses of medications missing from
// entries are left out. Unconfigured rows come after, in first-seen order, named and
// themed after their first dose.
func BuildRows(entries []*catalog.Entry, doses []model.ProcessedDose) []model.TimelineRow {
	configured := make(map[string][]model.ProcessedDose)
	unconfigured := make(map[string][]model.ProcessedDose)
	var unconfiguredOrder []string

	for _, d := range doses {
		if d.IsConfigured {
			configured[d.MedicationID] = append(configured[d.MedicationID], d)
			continue
		}
		if _, seen := unconfigured[d.MedicationID]; !seen {
			unconfiguredOrder = append(unconfiguredOrder, d.MedicationID)
		}
		unconfigured[d.MedicationID] = append(unconfigured[d.MedicationID], d)
	}

	rows := make([]model.TimelineRow, 0, len(entries)+len(unconfiguredOrder))

	// First pass: catalog declaration order
	for _, entry := range entries {
		group := configured[entry.ID]
		if len(group) == 0 {
			continue
		}
		rows = append(rows, model.TimelineRow{
			MedicationID: entry.ID,
			DisplayName:  entry.DisplayName,
			Theme:        entry.Theme,
			IsConfigured: true,
			Doses:        sortByStartDesc(group),
		})
	}

	// Second pass: unconfigured mentions
	for _, id := range unconfiguredOrder {
		group := unconfigured[id]
		rows = append(rows, model.TimelineRow{
			MedicationID: id,
			DisplayName:  group[0].DisplayName,
			Theme:        group[0].Theme,
			IsConfigured: false,
			Doses:        sortByStartDesc(group),
		})
	}

	return rows
}

// sortByStartDesc returns a copy sorted newest first; equal starts keep their input order
func sortByStartDesc(doses []model.ProcessedDose) []model.ProcessedDose {
	sorted := make([]model.ProcessedDose, len(doses))
	copy(sorted, doses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})
	return sorted
}
