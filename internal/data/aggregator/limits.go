package aggregator

import (
	"strings"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/catalog"
	"github.com/penwyp/go-dose-monitor/internal/core/model"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

// EvaluateLimits is the one-shot form of Aggregator.EvaluateLimits
func EvaluateLimits(entries []model.LogEntry, c *catalog.Catalog, limits []model.GlobalLimit, now time.Time) []model.LimitStatus {
	return NewAggregator(c).EvaluateLimits(entries, limits, now)
}

// EvaluateLimits checks every limit over its own window ending at now, keeping limit order
func (a *Aggregator) EvaluateLimits(entries []model.LogEntry, limits []model.GlobalLimit, now time.Time) []model.LimitStatus {
	return a.EvaluateDoseLimits(a.resolver.ResolveAll(entries), limits, now)
}

// EvaluateDoseLimits is EvaluateLimits over doses that were already resolved
func (a *Aggregator) EvaluateDoseLimits(doses []model.ParsedDose, limits []model.GlobalLimit, now time.Time) []model.LimitStatus {
	statuses := make([]model.LimitStatus, 0, len(limits))
	for _, limit := range limits {
		statuses = append(statuses, a.evaluate(doses, limit, now))
	}
	return statuses
}

func (a *Aggregator) evaluate(doses []model.ParsedDose, limit model.GlobalLimit, now time.Time) model.LimitStatus {
	consumed, _ := a.BreakdownDoses(doses, limit.IngredientName, limit.WindowHours, now)

	if consumed.Unit != "" && limit.Unit != "" && !strings.EqualFold(consumed.Unit, limit.Unit) {
		util.LogWarnf("Limit for %s is in %s but intake is recorded in %s",
			limit.IngredientName, limit.Unit, consumed.Unit)
	}

	status := model.LimitStatus{
		Limit:    limit,
		Consumed: consumed,
		Exceeded: consumed.Total > limit.MaxAmount,
	}
	if limit.MaxAmount > 0 {
		status.Percentage = consumed.Total / limit.MaxAmount * 100
	}
	if remaining := limit.MaxAmount - consumed.Total; remaining > 0 {
		status.Remaining = remaining
	}
	return status
}
