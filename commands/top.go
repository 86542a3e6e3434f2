package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/core/constants"
	"github.com/penwyp/go-dose-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-dose-monitor/internal/util"
)

func newTopCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Watch active doses and limits in real time",
		Long: `Similar to Linux top command, redraws the dose timeline every tick.

The timeline is projected again only when an entry file or the catalog
changes; between changes each tick just moves the window, the now marker,
the active doses and the rolling limit windows.

Keys: q or Esc quits, r reloads the catalog and entries, p pauses redraws.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd, v)
		},
	}

	cmd.Flags().String("time-format", "24h", "Time format (12h or 24h)")
	cmd.Flags().Duration("tick", constants.TickInterval, "Display refresh interval")
	cmd.Flags().Duration("debounce", constants.DataRefreshDebounce, "Delay before reloading after a file change")

	return cmd
}

func runTop(cmd *cobra.Command, v *viper.Viper) error {
	var opts []monitor.Option
	var keyboard *interaction.KeyboardReader
	if util.IsTerminal(os.Stdin) {
		kr, err := interaction.NewKeyboardReader()
		if err != nil {
			util.LogWarnf("Keyboard commands disabled: %v", err)
		} else {
			keyboard = kr
			opts = append(opts, monitor.WithKeyInput(kr))
		}
	}

	o, err := monitor.NewOrchestrator(monitorConfig(v), opts...)
	if err != nil {
		if keyboard != nil {
			_ = keyboard.Close()
		}
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return o.Run(ctx)
}
