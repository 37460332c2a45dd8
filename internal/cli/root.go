package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

// Deps are the collaborators of the command tree. Zero values are filled in
// from the environment.
type Deps struct {
	Settings *config.Settings
	Prompter Prompter
	// Logger replaces the stderr logger built from Settings.
	Logger *zap.Logger
	// Clock is the origin used to resolve date offsets.
	Clock func() time.Time
}

type app struct {
	deps Deps

	configFlag string
	configPath string
	cfg        *config.Configuration

	logger  *zap.Logger
	service *weather.Service
}

// NewRootCommand builds the weather command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:   "weather",
		Short: "Look up the weather with AccuWeather, WeatherAPI or AerisWeather",
		Long: `Look up current conditions, forecasts and history for a location.

The optional date token is h<N>h or h<N>d and counts back N hours or days.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVarP(&a.configFlag, "config-path", "c", "", "path of the configuration file")

	for _, c := range []*cobra.Command{
		a.getCommand(),
		a.configureCommand(),
		a.defaultCommand(),
		a.serveCommand(),
		a.watchCommand(),
	} {
		c.Annotations = map[string]string{configAnnotation: "true"}
		root.AddCommand(c)
	}
	return root
}

// configAnnotation marks the commands that load and save the configuration,
// leaving out cobra's own help and completion commands.
const configAnnotation = "weather/config"

func usesConfig(cmd *cobra.Command) bool {
	return cmd.Annotations[configAnnotation] == "true"
}

// setup loads settings and the configuration file and wires the provider registry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if !usesConfig(cmd) {
		return nil
	}

	if a.deps.Settings == nil {
		s, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		a.deps.Settings = s
	}
	settings := a.deps.Settings

	a.logger = a.deps.Logger
	if a.logger == nil {
		a.logger = newLogger(cmd.ErrOrStderr(), settings.LogLevel)
	}

	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	a.configPath = path

	cfg, err := config.Open(path)
	if err != nil {
		// Carry on with an empty configuration, it is written back on exit.
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		a.logger.Warn("using the default configuration", zap.String("path", path), zap.Error(err))
		cfg = config.Default()
	}
	a.cfg = cfg

	registry := providers.Registry(providers.Options{
		Timeout: settings.HTTPTimeout,
		Logger:  a.logger,
		Clock:   a.deps.Clock,
	}, settings.BaseURLs)
	a.service = weather.NewService(registry, a.logger)

	a.logger.Debug("configuration loaded",
		zap.String("path", path),
		zap.String("default_provider", string(cfg.DefaultProvider)),
	)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if !usesConfig(cmd) {
		return nil
	}
	defer func() { _ = a.logger.Sync() }()

	return a.cfg.Save(a.configPath)
}

func (a *app) resolveConfigPath() (string, error) {
	if a.configFlag != "" {
		return a.configFlag, nil
	}
	if a.deps.Settings.ConfigPath != "" {
		return a.deps.Settings.ConfigPath, nil
	}
	return config.DefaultPath()
}

// lookup runs cmd against the default provider from the configuration.
func (a *app) lookup(ctx context.Context, cmd weather.Command) (weather.Report, error) {
	return a.service.Run(ctx, a.cfg.DefaultProvider, a.cfg.Credentials(), cmd)
}

func (a *app) prompter(cmd *cobra.Command) Prompter {
	if a.deps.Prompter != nil {
		return a.deps.Prompter
	}
	return NewTerminalPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
}

func providerArgs() []string {
	names := make([]string, len(weather.ProviderNames))
	for i, p := range weather.ProviderNames {
		names[i] = string(p)
	}
	return names
}
