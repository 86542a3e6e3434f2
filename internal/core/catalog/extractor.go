package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/penwyp/go-dose-monitor/internal/core/model"
)

// RegexExtractor reads the amount from capture group 1 of its amount pattern.
// A named group "unit" overrides the fixed unit, and an optional count pattern
// multiplies the amount, e.g. "(2 tablets)".
type RegexExtractor struct {
	amount *regexp.Regexp
	count  *regexp.Regexp
	unit   string
}

// NewRegexExtractor compiles the amount and optional count expressions
func NewRegexExtractor(amountExpr, countExpr, unit string) (*RegexExtractor, error) {
	if amountExpr == "" {
		return nil, fmt.Errorf("amount pattern is required")
	}
	amount, err := regexp.Compile(amountExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount pattern %q: %w", amountExpr, err)
	}
	if amount.NumSubexp() < 1 {
		return nil, fmt.Errorf("amount pattern %q needs a capture group", amountExpr)
	}

	var count *regexp.Regexp
	if countExpr != "" {
		count, err = regexp.Compile(countExpr)
		if err != nil {
			return nil, fmt.Errorf("invalid count pattern %q: %w", countExpr, err)
		}
		if count.NumSubexp() < 1 {
			return nil, fmt.Errorf("count pattern %q needs a capture group", countExpr)
		}
	}

	return &RegexExtractor{amount: amount, count: count, unit: unit}, nil
}

// Extract implements Extractor
func (r *RegexExtractor) Extract(text string) (model.DoseAmount, bool) {
	m := r.amount.FindStringSubmatch(text)
	if m == nil {
		return model.DoseAmount{}, false
	}

	value, ok := parseNumber(m[1])
	if !ok {
		return model.DoseAmount{}, false
	}

	unit := r.unit
	if idx := r.amount.SubexpIndex("unit"); idx > 0 && m[idx] != "" {
		unit = strings.TrimSpace(m[idx])
	}

	if r.count != nil {
		if cm := r.count.FindStringSubmatch(text); cm != nil {
			if n, ok := parseNumber(cm[1]); ok && n > 0 {
				value *= n
			}
		}
	}

	return model.DoseAmount{Amount: value, Unit: unit}, true
}

// parseNumber accepts "1,000" and "2.5" style numbers
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
