package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
	"github.com/penwyp/go-dose-monitor/internal/core/timerange"
	"github.com/penwyp/go-dose-monitor/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testView() View {
	five := 5.0
	past := model.ProcessedDose{
		EntryID: "1", MedicationID: "percocet", DisplayName: "Percocet",
		StartTime: t0.Add(-5 * time.Hour), EndTime: t0.Add(-time.Hour),
		Amount: &five, Unit: "mg oxy", IsConfigured: true, Theme: "purple",
	}
	return View{
		Now:    t0,
		Window: timerange.Around(t0, 6*time.Hour, 6*time.Hour),
		UserID: "default",
		Rows: []timeline.PackedRow{{
			TimelineRow: model.TimelineRow{MedicationID: "percocet", DisplayName: "Percocet", Theme: "purple", IsConfigured: true, Doses: []model.ProcessedDose{past}},
			Lanes:       []timeline.Lane{{past}},
		}},
		Limits: []model.LimitStatus{{
			Limit:      model.GlobalLimit{IngredientName: "acetaminophen", MaxAmount: 4000, Unit: "mg", WindowHours: 24},
			Consumed:   model.ConsumptionResult{Total: 1950, Unit: "mg"},
			Remaining:  2050,
			Percentage: 48.75,
		}},
		Colors:     map[string]string{"purple": "#8e44ad"},
		EntryCount: 1,
		DoseCount:  1,
		LastUpdate: t0,
	}
}

func TestFrame(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	td := NewTerminalDisplayTo(&DisplayConfig{Width: 60}, &bytes.Buffer{})

	frame := td.Frame(testView())

	assert.Contains(t, frame, "Dose Monitor · default  2024-03-01 12:00:00")
	assert.Contains(t, frame, "Window 03-01 06:00 → 03-01 18:00 · 1 entries · 1 doses")
	assert.Contains(t, frame, "acetaminophen")
	assert.Contains(t, frame, "1950 / 4000 mg  48.8%")
	assert.Contains(t, frame, "none")
	assert.NotContains(t, frame, "\033[", "colour is off")

	var chart string
	for _, line := range strings.Split(frame, "\n") {
		if strings.HasPrefix(line, "Percocet") {
			chart = line
		}
	}
	require.NotEmpty(t, chart)
	cells := []rune(strings.TrimSpace(strings.TrimPrefix(chart, "Percocet")))
	require.Len(t, cells, 40)
	// 12h over 40 cells is 18 minutes a cell; the dose covers 1h..5h, now sits on cell 20
	assert.Equal(t, '·', cells[0])
	assert.Equal(t, '█', cells[5])
	assert.Equal(t, '█', cells[16])
	assert.Equal(t, '·', cells[17])
	assert.Equal(t, '│', cells[20])
}

func TestFrameActiveAndLoading(t *testing.T) {
	require.NoError(t, util.InitializeTimeProvider("UTC"))
	td := NewTerminalDisplayTo(&DisplayConfig{Width: 60, TimeFormat: "12h"}, &bytes.Buffer{})

	view := testView()
	running := view.Rows[0].Doses[0]
	running.StartTime = t0.Add(-time.Hour)
	running.EndTime = t0.Add(3 * time.Hour)
	view.Active = []model.ProcessedDose{running}

	frame := td.Frame(view)
	assert.Contains(t, frame, "since 11:00AM, 3h 00m left")
	assert.Contains(t, frame, "5 mg oxy")

	view.Loading = true
	view.Message = "Refreshing data..."
	frame = td.Frame(view)
	assert.Contains(t, frame, "Refreshing data...")
	assert.NotContains(t, frame, "Limits")
}

func TestFrameEmptyWindow(t *testing.T) {
	td := NewTerminalDisplayTo(&DisplayConfig{Width: 60}, &bytes.Buffer{})
	view := testView()
	view.Rows = nil

	assert.Contains(t, td.Frame(view), "no doses in window")
}

func TestRenderSkipsUnchangedFrames(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplayTo(&DisplayConfig{Width: 60}, &out)

	td.Render(testView())
	first := out.Len()
	require.Greater(t, first, 0)

	td.Render(testView())
	assert.Equal(t, first, out.Len())
}

func TestFrameColor(t *testing.T) {
	td := NewTerminalDisplayTo(&DisplayConfig{Width: 60, Color: true}, &bytes.Buffer{})

	frame := td.Frame(testView())

	assert.Contains(t, frame, "\033[38;2;142;68;173m█")
}

func TestAlternateScreen(t *testing.T) {
	var out bytes.Buffer
	td := NewTerminalDisplayTo(nil, &out)

	td.EnterAlternateScreen()
	td.EnterAlternateScreen()
	assert.Equal(t, 1, strings.Count(out.String(), "\033[?1049h"))

	td.ExitAlternateScreen()
	assert.Contains(t, out.String(), "\033[?1049l")
}
