package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatAmount renders an optional dose amount with its unit; unknown amounts render as "?"
func FormatAmount(amount *float64, unit string) string {
	if amount == nil {
		return "?"
	}
	return strings.TrimSpace(FormatNumber(*amount) + " " + unit)
}

// FormatNumber prints a float without trailing zeros, at most two decimals
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// FormatDuration renders d as "2h 05m" or "45m"; negative durations are clamped to zero
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatPercent renders a percentage with one decimal
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
