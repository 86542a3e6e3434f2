package monitor

import (
	"fmt"
	"time"

	"github.com/penwyp/go-dose-monitor/internal/core/constants"
)

// MonitorConfig contains configuration for the live monitor and the one-shot reports
type MonitorConfig struct {
	// Inputs
	CatalogPath string // empty selects the built-in catalog
	EntriesPath string // a .jsonl file or a directory of them
	UserID      string

	// Display settings
	Timezone   string
	TimeFormat string
	LookBack   time.Duration
	LookAhead  time.Duration

	// Refresh settings
	TickInterval    time.Duration
	RefreshDebounce time.Duration

	// Performance settings
	Concurrency int
	CacheSize   int
	CacheDir    string // persistent parse cache; empty disables it
	ResetCache  bool
}

// Validate fills defaults and rejects settings that cannot work
func (c *MonitorConfig) Validate() error {
	if c.EntriesPath == "" {
		return fmt.Errorf("entries path is required")
	}
	if c.UserID == "" {
		c.UserID = "default"
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "24h"
	}
	if c.TimeFormat != "12h" && c.TimeFormat != "24h" {
		return fmt.Errorf("invalid time format '%s': must be either '12h' or '24h'", c.TimeFormat)
	}
	if c.LookBack < 0 || c.LookAhead < 0 {
		return fmt.Errorf("visible window must not be negative")
	}
	if c.LookBack == 0 {
		c.LookBack = constants.DefaultLookBack
	}
	if c.LookAhead == 0 {
		c.LookAhead = constants.DefaultLookAhead
	}
	if c.TickInterval <= 0 {
		c.TickInterval = constants.TickInterval
	}
	if c.RefreshDebounce <= 0 {
		c.RefreshDebounce = constants.DataRefreshDebounce
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultProjectionCacheSize
	}
	return nil
}
