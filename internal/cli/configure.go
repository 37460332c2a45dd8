package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func (a *app) configureCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "configure <provider>",
		Short:     "Interactive configuration of a weather provider",
		Args:      cobra.ExactArgs(1),
		ValidArgs: providerArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := weather.ParseProviderName(args[0])
			if err != nil {
				return err
			}
			prompt := a.prompter(cmd)

			if p == weather.AerisWeather {
				id, err := prompt.Prompt("Please enter your client ID", false)
				if err != nil {
					return err
				}
				secret, err := prompt.Prompt("Please enter your client secret", true)
				if err != nil {
					return err
				}
				a.cfg.SetAerisWeatherCredentials(id, secret)
				return nil
			}

			key, err := prompt.Prompt("Please enter your API key", true)
			if err != nil {
				return err
			}
			return a.cfg.SetAPIKey(p, key)
		},
	}
}

func (a *app) defaultCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "default <provider>",
		Short:     "Set the default provider to be used later",
		Args:      cobra.ExactArgs(1),
		ValidArgs: providerArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := weather.ParseProviderName(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Have set the new default provider %s\n", p)
			a.cfg.DefaultProvider = p
			return nil
		},
	}
}
