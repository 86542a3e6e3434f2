package timeline

import (
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/timerange"
)

// PackLanes assigns doses to lanes. Doses are visited newest start first (stable),
// and each goes to the first lane, in creation order, holding no dose that strictly
// overlaps it; otherwise a new lane is opened. When the doses share one duration,
// as they do within a row, the lane count equals the maximum overlap depth.
func PackLanes(doses []model.ProcessedDose) []Lane {
	var lanes []Lane

	for _, d := range sortByStartDesc(doses) {
		placed := false
		for i := range lanes {
			if fits(lanes[i], d) {
				lanes[i] = append(lanes[i], d)
				placed = true
				break
			}
		}
		if !placed {
			lanes = append(lanes, Lane{d})
		}
	}

	return lanes
}

func fits(lane Lane, d model.ProcessedDose) bool {
	for _, other := range lane {
		if timerange.IntersectsStrict(other.Range(), d.Range()) {
			return false
		}
	}
	return true
}

// Pack packs every row
func Pack(rows []model.TimelineRow) []PackedRow {
	packed := make([]PackedRow, 0, len(rows))
	for _, row := range rows {
		packed = append(packed, PackedRow{
			TimelineRow: row,
			Lanes:       PackLanes(row.Doses),
		})
	}
	return packed
}
