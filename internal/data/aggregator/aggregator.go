package aggregator

import (
	"math"
	"strings"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/core/resolver"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// Aggregator sums ingredient intake over rolling windows of raw entries.
type Aggregator struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
}

// Contribution is the ingredient mass one dose adds to a total
type Contribution struct {
	EntryID      string    `json:"entryId"`
	MedicationID string    `json:"medicationId"`
	Timestamp    time.Time `json:"timestamp"`
	DoseAmount   float64   `json:"doseAmount"`
	DoseUnit     string    `json:"doseUnit"`
	Multiplier   float64   `json:"multiplier"`
	Amount       float64   `json:"amount"`
	Unit         string    `json:"unit"`
}

// NewAggregator creates an aggregator over the catalog
func NewAggregator(c *catalog.Catalog) *Aggregator {
	return &Aggregator{catalog: c, resolver: resolver.New(c)}
}

// CalculateIngredientConsumption is the one-shot form of Aggregator.IngredientConsumption
func CalculateIngredientConsumption(entries []model.LogEntry, c *catalog.Catalog, ingredient string, windowHours float64, now time.Time) model.ConsumptionResult {
	return NewAggregator(c).IngredientConsumption(entries, ingredient, windowHours, now)
}

// IngredientConsumption totals ingredient over entries timestamped in
// [now - windowHours, now], both ends included. Nothing matching yields {0, ""}.
func (a *Aggregator) IngredientConsumption(entries []model.LogEntry, ingredient string, windowHours float64, now time.Time) model.ConsumptionResult {
	result, _ := a.Breakdown(entries, ingredient, windowHours, now)
	return result
}

// Breakdown is IngredientConsumption plus the per-dose contributions, in entry order
func (a *Aggregator) Breakdown(entries []model.LogEntry, ingredient string, windowHours float64, now time.Time) (model.ConsumptionResult, []Contribution) {
	if strings.TrimSpace(ingredient) == "" || math.IsNaN(windowHours) {
		return model.ConsumptionResult{}, nil
	}

	from := windowStart(windowHours, now)
	var doses []model.ParsedDose
	for _, entry := range entries {
		if inWindow(entry.Timestamp, from, now) {
			doses = append(doses, a.resolver.ResolveEntry(entry)...)
		}
	}
	return a.BreakdownDoses(doses, ingredient, windowHours, now)
}

// BreakdownDoses is Breakdown over doses that were already resolved. Doses are windowed by entry timestamp.
func (a *Aggregator) BreakdownDoses(doses []model.ParsedDose, ingredient string, windowHours float64, now time.Time) (model.ConsumptionResult, []Contribution) {
	var result model.ConsumptionResult
	var contributions []Contribution

	if strings.TrimSpace(ingredient) == "" || math.IsNaN(windowHours) {
		return result, nil
	}

	from := windowStart(windowHours, now)
	for _, dose := range doses {
		if !inWindow(dose.Timestamp, from, now) {
			continue
		}
		c, ok := a.contribution(dose, ingredient)
		if !ok {
			continue
		}
		if result.Unit != "" && result.Unit != c.Unit {
			util.LogWarnf("Ingredient %s declared in %s by %s, was %s; keeping the latest unit",
				ingredient, c.Unit, c.MedicationID, result.Unit)
		}
		result.Total += c.Amount
		result.Unit = c.Unit
		contributions = append(contributions, c)
	}

	return result, contributions
}

func windowStart(windowHours float64, now time.Time) time.Time {
	return now.Add(-model.HoursToDuration(windowHours))
}

// inWindow is [from, now], both ends included
func inWindow(ts, from, now time.Time) bool {
	return !ts.Before(from) && !ts.After(now)
}

func (a *Aggregator) contribution(dose model.ParsedDose, ingredient string) (Contribution, bool) {
	if !dose.IsConfigured || dose.Amount == nil || *dose.Amount <= 0 {
		return Contribution{}, false
	}

	entry, ok := a.catalog.Entry(dose.MedicationID)
	if !ok {
		return Contribution{}, false
	}
	ing, ok := entry.Ingredient(ingredient)
	if !ok {
		return Contribution{}, false
	}

	multiplier := 1.0
	if baseline, ok := entry.BaselineDose(); ok {
		multiplier = *dose.Amount / baseline.Amount
	}

	return Contribution{
		EntryID:      dose.EntryID,
		MedicationID: dose.MedicationID,
		Timestamp:    dose.Timestamp,
		DoseAmount:   *dose.Amount,
		DoseUnit:     dose.Unit,
		Multiplier:   multiplier,
		Amount:       ing.AmountPerUnit * multiplier,
		Unit:         ing.Unit,
	}, true
}
