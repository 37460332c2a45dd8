package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <location> [date]",
		Short: "Get weather status for a given location",
		Example: `  weather get London
  weather get "New York" h3d`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := commandFromArgs(args)
			if err != nil {
				return err
			}
			a.logger.Debug("weather command", zap.Stringer("command", wc))

			report, err := a.lookup(cmd.Context(), wc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func commandFromArgs(args []string) (weather.Command, error) {
	var date string
	if len(args) > 1 {
		date = args[1]
	}
	return weather.NewCommand(args[0], date)
}
