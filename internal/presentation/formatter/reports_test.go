package formatter

import (
	"testing"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
	"github.com/penwyp/go-dose-monitor/internal/data/aggregator"
	"github.com/penwyp/go-dose-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func utcProvider(t *testing.T) *util.TimeProvider {
	tp, err := util.NewTimeProvider("UTC")
	require.NoError(t, err)
	return tp
}

func processed(id, med string, startH, endH float64, amount *float64, configured bool) model.ProcessedDose {
	return model.ProcessedDose{
		EntryID:      id,
		MedicationID: med,
		DisplayName:  med,
		StartTime:    t0.Add(model.HoursToDuration(startH)),
		EndTime:      t0.Add(model.HoursToDuration(endH)),
		Amount:       amount,
		Unit:         "mg",
		IsConfigured: configured,
	}
}

func TestTimelineReport(t *testing.T) {
	a := processed("a", "percocet", 0, 4, model.Float64Ptr(5), true)
	b := processed("b", "percocet", 2, 6, nil, true)
	u := processed("c", "unconfigured:melatonin", 1, 7, nil, false)
	rows := []timeline.PackedRow{
		{TimelineRow: model.TimelineRow{MedicationID: "percocet", DisplayName: "Percocet", IsConfigured: true, Doses: []model.ProcessedDose{b, a}}, Lanes: []timeline.Lane{{b}, {a}}},
		{TimelineRow: model.TimelineRow{MedicationID: "unconfigured:melatonin", DisplayName: "melatonin", Doses: []model.ProcessedDose{u}}, Lanes: []timeline.Lane{{u}}},
	}
	window := model.TimeRange{Start: t0, End: t0.Add(8 * time.Hour)}
	now := t0.Add(5 * time.Hour)

	report := TimelineReport(rows, window, now, utcProvider(t))

	assert.Equal(t, "Timeline 2024-03-01 08:00 → 2024-03-01 16:00", report.Title)
	require.Len(t, report.Rows, 3)
	assert.Equal(t, []string{"Percocet", "1", "2024-03-01 10:00", "2024-03-01 14:00", "?", "active"}, report.Rows[0])
	assert.Equal(t, []string{"Percocet", "2", "2024-03-01 08:00", "2024-03-01 12:00", "5 mg", "ended"}, report.Rows[1])
	assert.Equal(t, "melatonin *", report.Rows[2][0])
	assert.Equal(t, "active", report.Rows[2][5])
	assert.Equal(t, "2 rows, 3 lanes, 3 doses", report.Footer[0])
	assert.Len(t, report.Footer, 2)

	payload, ok := report.Payload.(TimelinePayload)
	require.True(t, ok)
	assert.Equal(t, rows, payload.Rows)
}

func TestTimelineReport_Upcoming(t *testing.T) {
	d := processed("a", "tylenol", 3, 9, nil, true)
	rows := []timeline.PackedRow{
		{TimelineRow: model.TimelineRow{MedicationID: "tylenol", DisplayName: "Tylenol", IsConfigured: true, Doses: []model.ProcessedDose{d}}, Lanes: []timeline.Lane{{d}}},
	}
	report := TimelineReport(rows, model.TimeRange{Start: t0, End: t0.Add(12 * time.Hour)}, t0, utcProvider(t))

	assert.Equal(t, "upcoming", report.Rows[0][5])
	assert.Len(t, report.Footer, 1)
}

func TestConsumptionReport(t *testing.T) {
	contributions := []aggregator.Contribution{
		{EntryID: "1", MedicationID: "percocet", Timestamp: t0, DoseAmount: 10, DoseUnit: "mg oxy", Multiplier: 2, Amount: 650, Unit: "mg"},
		{EntryID: "2", MedicationID: "tylenol", Timestamp: t0.Add(time.Hour), DoseAmount: 500, DoseUnit: "mg", Multiplier: 500.0 / 325.0, Amount: 500, Unit: "mg"},
	}
	result := model.ConsumptionResult{Total: 1150, Unit: "mg"}

	report := ConsumptionReport("acetaminophen", 24, t0.Add(2*time.Hour), result, contributions, utcProvider(t))

	assert.Equal(t, "acetaminophen over the last 24h", report.Title)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"2024-03-01 08:00", "percocet", "10 mg oxy", "×2", "650 mg"}, report.Rows[0])
	assert.Equal(t, "×1.54", report.Rows[1][3])
	assert.Equal(t, []string{"Total: 1150 mg"}, report.Footer)
}

func TestLimitsReport(t *testing.T) {
	statuses := []model.LimitStatus{
		{
			Limit:      model.GlobalLimit{IngredientName: "acetaminophen", MaxAmount: 4000, Unit: "mg", WindowHours: 24},
			Consumed:   model.ConsumptionResult{Total: 4550, Unit: "mg"},
			Percentage: 113.76,
			Exceeded:   true,
		},
		{
			Limit:      model.GlobalLimit{IngredientName: "oxycodone", MaxAmount: 60, Unit: "mg", WindowHours: 24},
			Consumed:   model.ConsumptionResult{Total: 10, Unit: "mg"},
			Remaining:  50,
			Percentage: 100.0 / 6.0,
		},
	}

	report := LimitsReport("default", statuses)

	assert.Equal(t, "Limits for default", report.Title)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"acetaminophen", "24h", "4550 mg", "4000 mg", "0 mg", "113.8%", "EXCEEDED"}, report.Rows[0])
	assert.Equal(t, []string{"oxycodone", "24h", "10 mg", "60 mg", "50 mg", "16.7%", "ok"}, report.Rows[1])
	assert.Equal(t, []string{"1 of 2 limits exceeded"}, report.Footer)
}

func TestLimitsReport_NoneExceeded(t *testing.T) {
	report := LimitsReport("default", nil)
	assert.Empty(t, report.Rows)
	assert.Empty(t, report.Footer)
}

func TestCatalogReport(t *testing.T) {
	report := CatalogReport(catalog.MustDefault())

	require.Len(t, report.Rows, 5)
	assert.Equal(t, []string{
		"percocet", "Percocet", "4h",
		"oxycodone 5mg, acetaminophen 325mg",
		"5 mg oxy, 10 mg oxy",
		"purple",
	}, report.Rows[0])
	assert.Equal(t, "gabapentin", report.Rows[4][0])
	assert.Equal(t, "", report.Rows[4][3])

	payload, ok := report.Payload.([]CatalogEntryPayload)
	require.True(t, ok)
	require.Len(t, payload, 5)
	assert.Equal(t, []string{`(?i)\bpercocet\b`}, payload[0].Patterns)
	assert.Equal(t, 8.0, payload[4].EffectiveHours)
}
