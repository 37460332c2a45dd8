package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/weather"
)

func (a *app) watchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <location> [date]",
		Short: "Repeat a lookup on an interval until interrupted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wc, err := commandFromArgs(args)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.deps.Settings.WatchInterval
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			var mu sync.Mutex
			sink := func(report weather.Report, err error) {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintln(errOut, err)
					return
				}
				fmt.Fprintln(out, report)
			}

			lookup := func(ctx context.Context) (weather.Report, error) {
				return a.lookup(ctx, wc)
			}

			s := scheduler.New(interval, a.lookupTimeout(), lookup, sink, a.logger)
			if err := s.Start(); err != nil {
				return fmt.Errorf("failed to start the watcher: %w", err)
			}
			defer s.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between lookups (default $WEATHER_WATCH_INTERVAL or 15m)")
	return cmd
}

// lookupTimeout bounds a whole lookup, which is two requests for AccuWeather.
func (a *app) lookupTimeout() time.Duration {
	if t := a.deps.Settings.HTTPTimeout; t > 0 {
		return 2 * t
	}
	return time.Minute
}
