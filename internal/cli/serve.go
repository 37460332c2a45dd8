package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
)

func (a *app) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve weather reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.deps.Settings.ServeAddr
			}

			server := httpapi.NewApp(a.lookup, a.logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Listen(addr)
			}()
			a.logger.Info("serving weather reports", zap.String("addr", addr))

			select {
			case err := <-errCh:
				return fmt.Errorf("server stopped: %w", err)
			case <-cmd.Context().Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.ShutdownWithContext(shutdownCtx); err != nil {
				return fmt.Errorf("error during shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $WEATHER_SERVE_ADDR or :8080)")
	return cmd
}
