package commands

import (
	"context"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/presentation/formatter"
)

// monitorConfig reads the shared settings into a monitor configuration
func monitorConfig(v *viper.Viper) *monitor.MonitorConfig {
	catalogPath := v.GetString("catalog")
	if catalogPath != "" {
		catalogPath = expandPath(catalogPath)
	}

	cacheDir := v.GetString("cache-dir")
	if cacheDir != "" {
		cacheDir = expandPath(cacheDir)
	}

	return &monitor.MonitorConfig{
		CatalogPath:     catalogPath,
		EntriesPath:     expandPath(v.GetString("entries")),
		UserID:          v.GetString("user"),
		Timezone:        v.GetString("timezone"),
		TimeFormat:      v.GetString("time-format"),
		LookBack:        v.GetDuration("look-back"),
		LookAhead:       v.GetDuration("look-ahead"),
		TickInterval:    v.GetDuration("tick"),
		RefreshDebounce: v.GetDuration("debounce"),
		Concurrency:     runtime.NumCPU(),
		CacheDir:        cacheDir,
		ResetCache:      v.GetBool("reset"),
	}
}

// outputFormatter resolves --output
func outputFormatter(v *viper.Viper) (formatter.Formatter, error) {
	return formatter.NewFormatter(v.GetString("output"))
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
