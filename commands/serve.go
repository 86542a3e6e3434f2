package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/api"
	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
)

const defaultListenAddr = "127.0.0.1:8787"

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timeline, intake totals and limits as JSON over HTTP",
		Long: `Starts a local HTTP server. Every request rescans the entry files; the projected
timeline is reused until entries or the catalog change.

Endpoints:
  GET /healthz
  GET /timeline
  GET /doses/active
  GET /consumption/{ingredient}?window=24
  GET /limits
  GET /catalog
  GET /catalog/{id}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	cmd.Flags().String("addr", defaultListenAddr, "Listen address")

	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	cfg := monitorConfig(v)
	o, err := monitor.NewOrchestrator(cfg)
	if err != nil {
		return err
	}
	// Fail fast on a broken catalog or entries path
	if _, err := o.Load(contextOrBackground(cmd)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(api.Deps{Source: o, LookBack: cfg.LookBack, LookAhead: cfg.LookAhead})
	return api.Serve(ctx, v.GetString("addr"), handler)
}
