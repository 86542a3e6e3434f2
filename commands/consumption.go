package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/core/constants"
	"github.com/penwyp/go-dose-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

func newConsumptionCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consumption",
		Short: "Sum an ingredient over a rolling window ending now",
		Long: `Sums how much of one ingredient the logged doses delivered in [now - window, now].

Each configured dose with a known amount contributes
  ingredient amount per unit × (dose amount / first standard dose amount).
Doses without an amount or a catalog entry do not count.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsumption(cmd, v)
		},
	}

	cmd.Flags().String("ingredient", "", "Ingredient name, case-insensitive (e.g., acetaminophen)")
	cmd.Flags().Float64("window", constants.DefaultConsumptionWindowHours, "Window length in hours")

	return cmd
}

func runConsumption(cmd *cobra.Command, v *viper.Viper) error {
	ingredient := strings.TrimSpace(v.GetString("ingredient"))
	if ingredient == "" {
		return fmt.Errorf("--ingredient is required")
	}
	window := v.GetFloat64("window")
	if window < 0 {
		return fmt.Errorf("--window must not be negative")
	}

	f, err := outputFormatter(v)
	if err != nil {
		return err
	}

	o, err := monitor.NewOrchestrator(monitorConfig(v))
	if err != nil {
		return err
	}
	snapshot, err := o.Load(contextOrBackground(cmd))
	if err != nil {
		return err
	}

	now := o.Now()
	result, contributions := snapshot.Aggregator.BreakdownDoses(snapshot.Doses, ingredient, window, now)

	report := formatter.ConsumptionReport(ingredient, window, now, result, contributions, util.GetTimeProvider())
	return f.Format(cmd.OutOrStdout(), report)
}
