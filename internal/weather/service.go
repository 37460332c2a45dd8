package weather

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service picks the configured provider and runs lookups against it.
type Service struct {
	factories map[ProviderName]Factory
	logger    *zap.Logger
}

// NewService creates a new Service over the given provider factories.
func NewService(factories map[ProviderName]Factory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		factories: factories,
		logger:    logger,
	}
}

// Provider builds the provider named by selected using creds.
func (s *Service) Provider(selected ProviderName, creds Credentials) (Provider, error) {
	if selected == "" {
		return nil, ErrNoDefaultProvider
	}
	factory, ok := s.factories[selected]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, selected)
	}
	p, err := factory(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to set up %s: %w", selected, err)
	}
	return p, nil
}

// Run executes cmd against the selected provider and returns the assembled report.
func (s *Service) Run(ctx context.Context, selected ProviderName, creds Credentials, cmd Command) (Report, error) {
	if err := cmd.Validate(); err != nil {
		return Report{}, err
	}

	p, err := s.Provider(selected, creds)
	if err != nil {
		return Report{}, err
	}

	s.logger.Debug("running weather command",
		zap.String("provider", string(p.Name())),
		zap.String("location", cmd.Location),
		zap.Stringer("date", cmd.Date),
	)

	report, err := p.Run(ctx, cmd)
	if err != nil {
		return Report{}, fmt.Errorf("failed to build a report: %w", err)
	}
	return report, nil
}
