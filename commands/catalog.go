package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penwyp/go-dose-monitor/internal/application/monitor"
	"github.com/penwyp/go-dose-monitor/internal/presentation/formatter"
)

func newCatalogCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List catalog medications in matching order",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := outputFormatter(v)
			if err != nil {
				return err
			}

			c, err := monitor.NewDataLoader(monitorConfig(v)).LoadCatalog()
			if err != nil {
				return err
			}
			return f.Format(cmd.OutOrStdout(), formatter.CatalogReport(c))
		},
	}
}
