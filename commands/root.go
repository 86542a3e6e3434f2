package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/core/constants"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

const (
	defaultLogFile     = "~/.go-dose-monitor/logs/app.log"
	defaultConfigDir   = "~/.go-dose-monitor"
	defaultEntriesPath = "~/.go-dose-monitor/entries"
	defaultCacheDir    = "~/.go-dose-monitor/cache"
	envPrefix          = "DOSE"
)

// NewRootCmd builds the command tree. Every call gets its own settings store.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "go-dose-monitor [flags]",
		Short: "Medication dose timeline and intake monitor",
		Long: `go-dose-monitor turns a free-text medication log into a timeline of active doses.

Each log line is split into mentions, matched against a medication catalog and
projected into an active interval. Doses of one medication are packed into as
few parallel lanes as possible, and ingredient intake is summed over rolling
windows against per-user limits.

Examples:
  go-dose-monitor                                      # Timeline around now
  go-dose-monitor --entries ~/meds/log.jsonl -o json   # Timeline as JSON
  go-dose-monitor consumption --ingredient acetaminophen --window 24
  go-dose-monitor limits --user alice
  go-dose-monitor catalog --catalog ./catalog.yaml
  go-dose-monitor top                                  # Live view
  go-dose-monitor serve --addr 127.0.0.1:8787          # JSON over HTTP`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = util.CloseLogger()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()

	flags.String("config", "", "Config file (default "+defaultConfigDir+"/config.yaml)")

	// Input data configuration
	flags.String("catalog", "", "Medication catalog file (.yaml, .yml or .json); empty uses the built-in catalog")
	flags.String("entries", defaultEntriesPath, "Entry log: a .jsonl file or a directory of them")
	flags.String("user", "default", "User whose limits and visualized medications apply")

	// Visible window
	flags.Duration("look-back", constants.DefaultLookBack, "How far before now the timeline shows")
	flags.Duration("look-ahead", constants.DefaultLookAhead, "How far after now the timeline shows")

	// Output configuration
	flags.StringP("output", "o", "auto", "Output format (auto, table, json, csv, summary)")
	flags.String("format", "", "Alias for --output")
	flags.String("timezone", "Local", "Timezone setting (e.g., Europe/Berlin, UTC)")

	// Parse cache
	flags.String("cache-dir", defaultCacheDir, "Directory of the parsed entry cache (empty disables it)")
	flags.BoolP("reset", "r", false, "Clear the parsed entry cache before loading")

	// System and debugging
	flags.Bool("debug", false, "Enable debug mode")
	flags.String("log-file", defaultLogFile, "Log file path (empty disables file logging)")
	flags.String("log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		newTimelineCmd(v),
		newConsumptionCmd(v),
		newLimitsCmd(v),
		newCatalogCmd(v),
		newTopCmd(v),
		newServeCmd(v),
	)

	return rootCmd
}

// Execute runs the command line
func Execute() error {
	return NewRootCmd().Execute()
}

// initConfig layers flags over environment over the config file, then sets up logging and time
func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(defaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if format := cmd.Flags().Lookup("format"); format != nil && format.Changed {
		v.Set("output", format.Value.String())
	}

	if err := setupLogging(v); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	if err := util.InitializeTimeProvider(v.GetString("timezone")); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}
	return nil
}

func setupLogging(v *viper.Viper) error {
	debug := v.GetBool("debug")
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := v.GetString("log-file")
	if logFile != "" {
		logFile = expandPath(logFile)
		if err := ensureDir(filepath.Dir(logFile)); err != nil {
			return err
		}
	}

	return util.InitLogger(util.LogConfig{
		Level:   logLevel,
		File:    logFile,
		Console: debug,
		Format:  util.LogFormat(v.GetString("log-format")),
	})
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
