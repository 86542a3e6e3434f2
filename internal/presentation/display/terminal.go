package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timeline"
	"github.com/penwyp/go-dose-monitor/internal/core/timerange"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

const (
	labelWidth    = 18
	minChartWidth = 24
	limitBarWidth = 20
)

// TerminalDisplay draws View frames onto a terminal
type TerminalDisplay struct {
	config            *DisplayConfig
	out               io.Writer
	mu                sync.Mutex
	inAlternateScreen bool
	lastFrame         string
}

// NewTerminalDisplay creates a display writing to stdout
func NewTerminalDisplay(config *DisplayConfig) *TerminalDisplay {
	return NewTerminalDisplayTo(config, os.Stdout)
}

// NewTerminalDisplayTo creates a display writing to out
func NewTerminalDisplayTo(config *DisplayConfig, out io.Writer) *TerminalDisplay {
	if config == nil {
		config = &DisplayConfig{}
	}
	return &TerminalDisplay{config: config, out: out}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()

	if !td.inAlternateScreen {
		fmt.Fprint(td.out, "\033[?1049h", util.ClearScreen, util.MoveCursorHome, util.HideCursor)
		td.inAlternateScreen = true
		td.lastFrame = ""
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()

	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen, util.MoveCursorHome, util.ShowCursor, "\033[?1049l")
		td.inAlternateScreen = false
	}
}

// Render draws the frame, skipping the write when nothing changed
func (td *TerminalDisplay) Render(view View) {
	frame := td.Frame(view)

	td.mu.Lock()
	defer td.mu.Unlock()

	if frame == td.lastFrame {
		return
	}
	td.lastFrame = frame
	fmt.Fprint(td.out, util.MoveCursorHome, util.ClearScreen, frame)
}

func (td *TerminalDisplay) width() int {
	if td.config.Width > 0 {
		return td.config.Width
	}
	return util.TerminalWidth(os.Stdout)
}

func (td *TerminalDisplay) timeLayout() string {
	if td.config.TimeFormat == "12h" {
		return "3:04PM"
	}
	return "15:04"
}

func (td *TerminalDisplay) color(text, code string) string {
	if !td.config.Color {
		return text
	}
	return util.Colorize(text, code)
}

// Frame renders the view as plain lines
func (td *TerminalDisplay) Frame(view View) string {
	var b strings.Builder
	layout := td.timeLayout()
	tp := util.GetTimeProvider()

	title := "Dose Monitor"
	if view.UserID != "" {
		title += " · " + view.UserID
	}
	fmt.Fprintf(&b, "%s  %s\n", td.color(title, util.ColorBold), tp.Format(view.Now, "2006-01-02 "+layout+":05"))
	fmt.Fprintf(&b, "Window %s → %s · %d entries · %d doses\n",
		tp.Format(view.Window.Start, "01-02 "+layout), tp.Format(view.Window.End, "01-02 "+layout),
		view.EntryCount, view.DoseCount)

	if view.Loading {
		msg := view.Message
		if msg == "" {
			msg = "Loading data..."
		}
		b.WriteString(td.color(msg, util.ColorYellow) + "\n")
		return b.String()
	}

	b.WriteString("\n")
	td.writeChart(&b, view)

	b.WriteString("\n" + td.color("Active now", util.ColorCyan) + "\n")
	if len(view.Active) == 0 {
		b.WriteString("  none\n")
	}
	for _, d := range view.Active {
		fmt.Fprintf(&b, "  %s %s  since %s, %s left\n",
			util.PadRight(d.DisplayName, labelWidth),
			util.PadRight(util.FormatAmount(d.Amount, d.Unit), 12),
			tp.Format(d.StartTime, layout),
			util.FormatDuration(d.EndTime.Sub(view.Now)))
	}

	if len(view.Limits) > 0 {
		b.WriteString("\n" + td.color("Limits", util.ColorCyan) + "\n")
		for _, l := range view.Limits {
			bar := util.CreateProgressBar(l.Percentage, limitBarWidth)
			fmt.Fprintf(&b, "  %s %s %s / %s %s  %s\n",
				util.PadRight(l.Limit.IngredientName, labelWidth),
				td.color(bar, util.LimitColor(l.Percentage)),
				util.FormatNumber(l.Consumed.Total),
				util.FormatNumber(l.Limit.MaxAmount),
				l.Limit.Unit,
				util.FormatPercent(l.Percentage))
		}
	}

	b.WriteString("\n")
	if view.Message != "" {
		b.WriteString(td.color(view.Message, util.ColorYellow) + "\n")
	}
	if !view.LastUpdate.IsZero() {
		fmt.Fprintf(&b, "%s ", td.color("Updated "+tp.Format(view.LastUpdate, layout+":05"), util.ColorDim))
	}
	if view.Paused {
		b.WriteString(td.color("PAUSED", util.ColorYellow) + " ")
	}
	b.WriteString(td.color("q quit · r reload · p pause", util.ColorDim) + "\n")

	return b.String()
}

// writeChart draws one line per lane. Each cell spans an equal slice of the
// window and is filled when a dose strictly overlaps that slice.
func (td *TerminalDisplay) writeChart(b *strings.Builder, view View) {
	chartWidth := td.width() - labelWidth - 2
	if chartWidth < minChartWidth {
		chartWidth = minChartWidth
	}

	span := view.Window.Duration()
	if span <= 0 || len(view.Rows) == 0 {
		b.WriteString("  no doses in window\n")
		return
	}
	cell := span / time.Duration(chartWidth)
	if cell <= 0 {
		cell = 1
	}
	nowCol := -1
	if timerange.IntersectsInclusive(view.Window, timerange.Instant(view.Now)) {
		nowCol = int(view.Now.Sub(view.Window.Start) / cell)
	}

	for _, row := range view.Rows {
		for i, lane := range row.Lanes {
			label := ""
			if i == 0 {
				label = row.DisplayName
			}
			b.WriteString(util.PadRight(label, labelWidth) + "  ")
			b.WriteString(td.laneCells(lane, view, chartWidth, cell, nowCol, row))
			b.WriteString("\n")
		}
	}
}

func (td *TerminalDisplay) laneCells(lane timeline.Lane, view View, width int, cell time.Duration, nowCol int, row timeline.PackedRow) string {
	var b strings.Builder
	for col := 0; col < width; col++ {
		slice := model.TimeRange{
			Start: view.Window.Start.Add(time.Duration(col) * cell),
			End:   view.Window.Start.Add(time.Duration(col+1) * cell),
		}
		filled := false
		for _, d := range lane {
			if timerange.IntersectsStrict(d.Range(), slice) {
				filled = true
				break
			}
		}
		switch {
		case filled:
			b.WriteString(td.themed("█", row.Theme, view.Colors))
		case col == nowCol:
			b.WriteString("│")
		default:
			b.WriteString("·")
		}
	}
	return b.String()
}

func (td *TerminalDisplay) themed(text, theme string, colors map[string]string) string {
	if !td.config.Color {
		return text
	}
	if hex, ok := colors[theme]; ok {
		return util.HexColor(text, hex)
	}
	return text
}
