package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/presentation/formatter"
)

func newLimitsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Compare the user's ingredient intake with their global limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLimits(cmd, v)
		},
	}
}

func runLimits(cmd *cobra.Command, v *viper.Viper) error {
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

	if snapshot.User == nil {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "User %q is not configured. Configured users: %s\n",
			snapshot.UserID, strings.Join(snapshot.Catalog.UserIDs(), ", "))
		return err
	}

	statuses := snapshot.Aggregator.EvaluateDoseLimits(snapshot.Doses, snapshot.User.GlobalLimits, o.Now())
	return f.Format(cmd.OutOrStdout(), formatter.LimitsReport(snapshot.UserID, statuses))
}
