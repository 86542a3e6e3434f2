package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
	"github.com/penwyp/go-dose-monitor/internal/core/timerange"
	"github.com/penwyp/go-dose-monitor/internal/data/aggregator"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

const reportTimeLayout = "2006-01-02 15:04"

// TimelinePayload is the JSON form of a timeline report
type TimelinePayload struct {
	Now    time.Time            `json:"now"`
	Window model.TimeRange      `json:"window"`
	Rows   []timeline.PackedRow `json:"rows"`
}

// TimelineReport lists every dose of the packed rows, lane by lane
func TimelineReport(rows []timeline.PackedRow, window model.TimeRange, now time.Time, tp *util.TimeProvider) *Report {
	report := &Report{
		Title:   fmt.Sprintf("Timeline %s → %s", tp.Format(window.Start, reportTimeLayout), tp.Format(window.End, reportTimeLayout)),
		Headers: []string{"Medication", "Lane", "Start", "End", "Amount", "Status"},
		Numeric: map[int]bool{1: true},
		Payload: TimelinePayload{Now: now, Window: window, Rows: rows},
	}

	doses := 0
	for _, row := range rows {
		name := row.DisplayName
		if !row.IsConfigured {
			name += " *"
		}
		for laneIdx, lane := range row.Lanes {
			for _, d := range lane {
				doses++
				report.Rows = append(report.Rows, []string{
					name,
					strconv.Itoa(laneIdx + 1),
					tp.Format(d.StartTime, reportTimeLayout),
					tp.Format(d.EndTime, reportTimeLayout),
					util.FormatAmount(d.Amount, d.Unit),
					doseStatus(d, now),
				})
			}
		}
	}

	report.Footer = []string{fmt.Sprintf("%d rows, %d lanes, %d doses", len(rows), timeline.LaneCount(rows), doses)}
	for _, row := range rows {
		if !row.IsConfigured {
			report.Footer = append(report.Footer, "* not in the catalog; shown with the default 6h duration")
			break
		}
	}
	return report
}

func doseStatus(d model.ProcessedDose, now time.Time) string {
	switch {
	case timerange.IsActive(d, now):
		return "active"
	case d.StartTime.After(now):
		return "upcoming"
	default:
		return "ended"
	}
}

// ConsumptionPayload is the JSON form of a consumption report
type ConsumptionPayload struct {
	Ingredient    string                    `json:"ingredient"`
	WindowHours   float64                   `json:"windowHours"`
	Now           time.Time                 `json:"now"`
	Result        model.ConsumptionResult   `json:"result"`
	Contributions []aggregator.Contribution `json:"contributions"`
}

// ConsumptionReport shows each contributing dose and the total
func ConsumptionReport(ingredient string, windowHours float64, now time.Time, result model.ConsumptionResult, contributions []aggregator.Contribution, tp *util.TimeProvider) *Report {
	report := &Report{
		Title:   fmt.Sprintf("%s over the last %sh", ingredient, util.FormatNumber(windowHours)),
		Headers: []string{"Time", "Medication", "Dose", "Multiplier", "Contributes"},
		Numeric: map[int]bool{3: true, 4: true},
		Payload: ConsumptionPayload{
			Ingredient:    ingredient,
			WindowHours:   windowHours,
			Now:           now,
			Result:        result,
			Contributions: contributions,
		},
	}

	for _, c := range contributions {
		amount := c.DoseAmount
		report.Rows = append(report.Rows, []string{
			tp.Format(c.Timestamp, reportTimeLayout),
			c.MedicationID,
			util.FormatAmount(&amount, c.DoseUnit),
			"×" + util.FormatNumber(c.Multiplier),
			strings.TrimSpace(util.FormatNumber(c.Amount) + " " + c.Unit),
		})
	}

	report.Footer = []string{fmt.Sprintf("Total: %s", strings.TrimSpace(util.FormatNumber(result.Total)+" "+result.Unit))}
	return report
}

// LimitsReport shows one line per global limit
func LimitsReport(userID string, statuses []model.LimitStatus) *Report {
	report := &Report{
		Title:   "Limits for " + userID,
		Headers: []string{"Ingredient", "Window", "Consumed", "Max", "Remaining", "Used", "Status"},
		Numeric: map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true},
		Payload: statuses,
	}

	exceeded := 0
	for _, s := range statuses {
		status := "ok"
		if s.Exceeded {
			status = "EXCEEDED"
			exceeded++
		}
		report.Rows = append(report.Rows, []string{
			s.Limit.IngredientName,
			util.FormatNumber(s.Limit.WindowHours) + "h",
			strings.TrimSpace(util.FormatNumber(s.Consumed.Total) + " " + s.Limit.Unit),
			strings.TrimSpace(util.FormatNumber(s.Limit.MaxAmount) + " " + s.Limit.Unit),
			strings.TrimSpace(util.FormatNumber(s.Remaining) + " " + s.Limit.Unit),
			util.FormatPercent(s.Percentage),
			status,
		})
	}

	if exceeded > 0 {
		report.Footer = []string{fmt.Sprintf("%d of %d limits exceeded", exceeded, len(statuses))}
	}
	return report
}

// CatalogEntryPayload is the JSON form of one catalog entry
type CatalogEntryPayload struct {
	ID             string                 `json:"id"`
	DisplayName    string                 `json:"displayName"`
	Patterns       []string               `json:"patterns"`
	TypicalHours   *float64               `json:"typicalHours,omitempty"`
	Ingredients    []catalog.Ingredient   `json:"ingredients,omitempty"`
	StandardDoses  []catalog.StandardDose `json:"standardDoses,omitempty"`
	Theme          string                 `json:"theme"`
	EffectiveHours float64                `json:"effectiveHours"`
}

// CatalogEntry is the JSON form of e
func CatalogEntry(e *catalog.Entry) CatalogEntryPayload {
	patterns := make([]string, 0, len(e.Patterns))
	for _, p := range e.Patterns {
		patterns = append(patterns, p.String())
	}
	return CatalogEntryPayload{
		ID:             e.ID,
		DisplayName:    e.DisplayName,
		Patterns:       patterns,
		TypicalHours:   e.TypicalDurationHours(),
		Ingredients:    e.Ingredients,
		StandardDoses:  e.StandardDoses,
		Theme:          e.Theme,
		EffectiveHours: model.EffectiveDurationHours(e.TypicalDurationHours()),
	}
}

// CatalogReport lists entries in declaration order
func CatalogReport(c *catalog.Catalog) *Report {
	entries := c.Entries()
	payload := make([]CatalogEntryPayload, 0, len(entries))
	report := &Report{
		Title:   fmt.Sprintf("Catalog %s", c.Version()),
		Headers: []string{"ID", "Name", "Duration", "Ingredients", "Standard doses", "Theme"},
		Numeric: map[int]bool{2: true},
	}

	for _, e := range entries {
		hours := model.EffectiveDurationHours(e.TypicalDurationHours())
		payload = append(payload, CatalogEntry(e))

		ingredients := make([]string, 0, len(e.Ingredients))
		for _, ing := range e.Ingredients {
			ingredients = append(ingredients, fmt.Sprintf("%s %s%s", ing.Name, util.FormatNumber(ing.AmountPerUnit), ing.Unit))
		}
		doses := make([]string, 0, len(e.StandardDoses))
		for _, sd := range e.StandardDoses {
			doses = append(doses, strings.TrimSpace(util.FormatNumber(sd.Amount)+" "+sd.Unit))
		}

		report.Rows = append(report.Rows, []string{
			e.ID,
			e.DisplayName,
			util.FormatNumber(hours) + "h",
			strings.Join(ingredients, ", "),
			strings.Join(doses, ", "),
			e.Theme,
		})
	}

	report.Payload = payload
	return report
}
