package parser

import (
	"sort"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// Merge combines parse results into one timestamp-ascending list. The first
// occurrence of an id wins; equal timestamps keep their merge order.
func Merge(results []ParseResult) []model.LogEntry {
	seen := make(map[string]struct{})
	var merged []model.LogEntry

	for _, result := range results {
		for _, entry := range result.Entries {
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			seen[entry.ID] = struct{}{}
			merged = append(merged, entry)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged
}
