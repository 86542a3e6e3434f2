package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

func newTimelineCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Print the packed dose timeline around now",
		Long: `Prints every visible dose, one line per dose, grouped by medication row and lane.

A dose is visible when its active interval touches the window
[now - look-back, now + look-ahead]. Lanes keep their packed order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(cmd, v)
		},
	}
}

func runTimeline(cmd *cobra.Command, v *viper.Viper) error {
	f, err := outputFormatter(v)
	if err != nil {
		return err
	}

	o, err := monitor.NewOrchestrator(monitorConfig(v))
	if err != nil {
		return err
	}

	view, _, err := o.LoadView(contextOrBackground(cmd))
	if err != nil {
		return err
	}

	report := formatter.TimelineReport(view.Rows, view.Window, view.Now, util.GetTimeProvider())
	if view.Message != "" {
		report.Footer = append(report.Footer, view.Message)
	}
	return f.Format(cmd.OutOrStdout(), report)
}
