package constants

import "time"

const (
	// Live view cadences
	TickInterval        = time.Second
	DataRefreshDebounce = 500 * time.Millisecond

	// Visible window around now
	DefaultLookBack  = 24 * time.Hour
	DefaultLookAhead = 6 * time.Hour

	// Consumption window used when a command is not given one
	DefaultConsumptionWindowHours = 24.0

	// Upper bound on memoized projections
	DefaultProjectionCacheSize = 8
)
