// Package resolver turns medication mentions into structured doses using the catalog.
package resolver

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/tokenizer"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Resolver matches mentions against catalog entries in declaration order
type Resolver struct {
	catalog *catalog.Catalog
	entries []*catalog.Entry
}

// New creates a resolver over the catalog
func New(c *catalog.Catalog) *Resolver {
	return &Resolver{
		catalog: c,
		entries: c.Entries(),
	}
}

// Catalog returns the catalog the resolver reads from
func (r *Resolver) Catalog() *catalog.Catalog {
	return r.catalog
}

// ResolveAll resolves every mention of every entry, keeping entry and mention order
func (r *Resolver) ResolveAll(entries []model.LogEntry) []model.ParsedDose {
	doses := make([]model.ParsedDose, 0, len(entries))
	for _, entry := range entries {
		doses = append(doses, r.ResolveEntry(entry)...)
	}
	return doses
}

// ResolveEntry tokenizes one log entry and resolves each mention
func (r *Resolver) ResolveEntry(entry model.LogEntry) []model.ParsedDose {
	mentions := tokenizer.Split(entry.RawText)
	if len(mentions) == 0 {
		return nil
	}

	doses := make([]model.ParsedDose, 0, len(mentions))
	for _, mention := range mentions {
		doses = append(doses, r.ResolveMention(entry.ID, entry.Timestamp, mention))
	}
	return doses
}

// ResolveMention returns the dose of the first catalog entry whose pattern matches
// and whose extractor succeeds. A pattern hit with a failed extraction does not end
// the search; the next entry gets its chance. When nothing succeeds the mention is
// returned as an unconfigured dose.
func (r *Resolver) ResolveMention(entryID string, ts time.Time, mention string) model.ParsedDose {
	for _, entry := range r.entries {
		if !entry.Matches(mention) {
			continue
		}

		amount, ok := safeExtract(entry, mention)
		if !ok {
			util.LogDebugf("Resolver: %s matched %q but extracted no dose, continuing", entry.ID, mention)
			continue
		}

		value := amount.Amount
		hours := model.EffectiveDurationHours(entry.TypicalDurationHours())
		return model.ParsedDose{
			EntryID:             entryID,
			MedicationID:        entry.ID,
			DisplayName:         entry.DisplayName,
			Timestamp:           ts,
			Amount:              &value,
			Unit:                amount.Unit,
			IsConfigured:        true,
			ActiveDurationHours: &hours,
			Theme:               entry.Theme,
		}
	}

	return Unconfigured(entryID, ts, mention)
}

// Unconfigured builds the fallback dose for a mention no entry resolved
func Unconfigured(entryID string, ts time.Time, mention string) model.ParsedDose {
	trimmed := strings.TrimSpace(mention)
	return model.ParsedDose{
		EntryID:      entryID,
		MedicationID: UnconfiguredID(trimmed),
		DisplayName:  trimmed,
		Timestamp:    ts,
		Unit:         "",
		IsConfigured: false,
		Theme:        model.DefaultTheme,
	}
}

// UnconfiguredID lower-cases the trimmed mention, collapses non-alphanumeric runs to "_"
// and adds the unconfigured prefix
func UnconfiguredID(mention string) string {
	normalized := strings.ToLower(strings.TrimSpace(mention))
	return model.UnconfiguredPrefix + nonAlphanumeric.ReplaceAllString(normalized, "_")
}

// safeExtract isolates a faulty extractor so it only disqualifies its own entry
func safeExtract(entry *catalog.Entry, mention string) (dose model.DoseAmount, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			util.LogWarnf("Resolver: extractor for %s failed on %q: %v", entry.ID, mention, rec)
			dose, ok = model.DoseAmount{}, false
		}
	}()

	dose, ok = entry.Extractor.Extract(mention)
	if ok && (math.IsNaN(dose.Amount) || math.IsInf(dose.Amount, 0)) {
		util.LogWarnf("Resolver: extractor for %s returned non-finite amount on %q", entry.ID, mention)
		return model.DoseAmount{}, false
	}
	return dose, ok
}
