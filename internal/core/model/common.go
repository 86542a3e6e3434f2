package model

import (
	"math"
	"time"
)

const (
	// DefaultActiveDurationHours is used when a dose carries no active duration
	DefaultActiveDurationHours = 6.0

	// UnconfiguredPrefix prefixes synthesized ids of mentions no catalog entry resolved
	UnconfiguredPrefix = "unconfigured_"

	// DefaultTheme is assigned to unconfigured doses
	DefaultTheme = "default"
)

// EffectiveDurationHours is the single place the default active duration is applied.
// A nil or non-positive duration falls back to DefaultActiveDurationHours.
func EffectiveDurationHours(hours *float64) float64 {
	if hours == nil || *hours <= 0 || math.IsNaN(*hours) || math.IsInf(*hours, 0) {
		return DefaultActiveDurationHours
	}
	return *hours
}

// HoursToDuration converts fractional hours to a time.Duration
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}
