package timeline

import (
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/resolver"
	"github.com/penwyp/go-dose-monitor/internal/core/timerange"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// Builder runs log entries through resolve, project, group and pack
type Builder struct {
	resolver   *resolver.Resolver
	rowEntries []*catalog.Entry
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithRowEntries restricts and orders the configured rows. By default every catalog entry gets a row.
func WithRowEntries(entries []*catalog.Entry) BuilderOption {
	return func(b *Builder) {
		b.rowEntries = entries
	}
}

// NewBuilder creates a builder over the given catalog
func NewBuilder(c *catalog.Catalog, opts ...BuilderOption) *Builder {
	b := &Builder{
		resolver:   resolver.New(c),
		rowEntries: c.Entries(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Project resolves and projects the entries into processed doses, in log order
func (b *Builder) Project(entries []model.LogEntry) []model.ProcessedDose {
	return ProjectAll(b.resolver.ResolveAll(entries))
}

// Build produces the complete timeline for the entries
func (b *Builder) Build(entries []model.LogEntry) *Timeline {
	parsed := b.resolver.ResolveAll(entries)
	doses := ProjectAll(parsed)
	rows := Pack(BuildRows(b.rowEntries, doses))

	util.LogDebugf("Timeline built: %d entries, %d doses, %d rows", len(entries), len(doses), len(rows))

	return &Timeline{Parsed: parsed, Doses: doses, Rows: rows}
}

// Visible keeps the doses of every lane that intersect the window. Lanes keep pack
// order; lanes and rows left empty are dropped.
func (t *Timeline) Visible(window model.TimeRange) []PackedRow {
	return FilterRows(t.Rows, window)
}

// Active returns the doses active at now, limited to medications that have a row.
// Doses of medications left out by WithRowEntries are projected but never shown.
func (t *Timeline) Active(now time.Time) []model.ProcessedDose {
	shown := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		shown[row.MedicationID] = true
	}

	var active []model.ProcessedDose
	for _, d := range timerange.ActiveDoses(t.Doses, now) {
		if shown[d.MedicationID] {
			active = append(active, d)
		}
	}
	return active
}

// FilterRows is the window filter applied to packed rows
func FilterRows(rows []PackedRow, window model.TimeRange) []PackedRow {
	out := make([]PackedRow, 0, len(rows))
	for _, row := range rows {
		var lanes []Lane
		for _, lane := range row.Lanes {
			kept := timerange.FilterDoses(lane, window)
			if len(kept) == 0 {
				continue
			}
			lanes = append(lanes, kept)
		}
		if len(lanes) == 0 {
			continue
		}
		filtered := row
		filtered.Doses = timerange.FilterDoses(row.Doses, window)
		filtered.Lanes = lanes
		out = append(out, filtered)
	}
	return out
}

// LaneCount returns the total number of lanes over all rows
func LaneCount(rows []PackedRow) int {
	n := 0
	for _, row := range rows {
		n += len(row.Lanes)
	}
	return n
}
