package timerange

import (
	"testing"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func rng(startH, endH float64) model.TimeRange {
	return model.TimeRange{
		Start: t0.Add(model.HoursToDuration(startH)),
		End:   t0.Add(model.HoursToDuration(endH)),
	}
}

func dose(id string, startH, endH float64) model.ProcessedDose {
	r := rng(startH, endH)
	return model.ProcessedDose{EntryID: id, StartTime: r.Start, EndTime: r.End}
}

func TestIntersectsStrictAndInclusive(t *testing.T) {
	tests := []struct {
		name      string
		a, b      model.TimeRange
		strict    bool
		inclusive bool
	}{
		{"disjoint", rng(0, 1), rng(2, 3), false, false},
		{"touching", rng(0, 2), rng(2, 4), false, true},
		{"touching reversed", rng(2, 4), rng(0, 2), false, true},
		{"overlapping", rng(0, 3), rng(2, 4), true, true},
		{"contained", rng(0, 10), rng(2, 4), true, true},
		{"identical", rng(1, 2), rng(1, 2), true, true},
		{"instant inside", rng(0, 4), rng(2, 2), true, true},
		{"instant at start", rng(0, 4), rng(0, 0), false, true},
		{"instant at end", rng(0, 4), rng(4, 4), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strict, IntersectsStrict(tt.a, tt.b))
			assert.Equal(t, tt.strict, IntersectsStrict(tt.b, tt.a), "strict must be symmetric")
			assert.Equal(t, tt.inclusive, IntersectsInclusive(tt.a, tt.b))
			assert.Equal(t, tt.inclusive, IntersectsInclusive(tt.b, tt.a), "inclusive must be symmetric")
		})
	}
}

func TestFilterDoses(t *testing.T) {
	doses := []model.ProcessedDose{
		dose("before", -10, -6),
		dose("touch-start", -8, -4),
		dose("inside", -2, 2),
		dose("touch-end", 6, 10),
		dose("after", 7, 11),
	}
	window := rng(-4, 6)

	filtered := FilterDoses(doses, window)

	ids := make([]string, 0, len(filtered))
	for _, d := range filtered {
		ids = append(ids, d.EntryID)
	}
	assert.Equal(t, []string{"touch-start", "inside", "touch-end"}, ids)
}

func TestFilterDosesIdempotent(t *testing.T) {
	doses := []model.ProcessedDose{dose("a", -10, -6), dose("b", -2, 2), dose("c", 1, 30)}
	window := rng(-4, 6)

	once := FilterDoses(doses, window)
	twice := FilterDoses(once, window)

	assert.Equal(t, once, twice)
}

func TestIsActive(t *testing.T) {
	d := dose("a", 0, 4)

	assert.False(t, IsActive(d, t0.Add(-time.Second)))
	assert.True(t, IsActive(d, t0))
	assert.True(t, IsActive(d, t0.Add(2*time.Hour)))
	assert.True(t, IsActive(d, t0.Add(4*time.Hour)))
	assert.False(t, IsActive(d, t0.Add(4*time.Hour+time.Second)))

	active := ActiveDoses([]model.ProcessedDose{d, dose("b", 5, 6)}, t0.Add(time.Hour))
	assert.Len(t, active, 1)
}

func TestAround(t *testing.T) {
	r := Around(t0, 24*time.Hour, 6*time.Hour)
	assert.Equal(t, t0.Add(-24*time.Hour), r.Start)
	assert.Equal(t, t0.Add(6*time.Hour), r.End)
	assert.Equal(t, 30*time.Hour, r.Duration())
}

func TestMaxDepth(t *testing.T) {
	assert.Equal(t, 0, MaxDepth(nil))
	assert.Equal(t, 1, MaxDepth([]model.ProcessedDose{dose("a", 0, 4)}))
	assert.Equal(t, 1, MaxDepth([]model.ProcessedDose{dose("a", 0, 4), dose("b", 4, 8)}), "touching intervals do not stack")
	assert.Equal(t, 2, MaxDepth([]model.ProcessedDose{dose("a", 0, 4), dose("b", 3, 7), dose("c", 6, 10)}))
	assert.Equal(t, 3, MaxDepth([]model.ProcessedDose{dose("a", 0, 10), dose("b", 1, 9), dose("c", 2, 8), dose("d", 9, 12)}))
}
