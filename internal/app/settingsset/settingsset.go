package settingsset

import (
	"context"
	"fmt"

	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage"
)

// ServiceConfig is the configuration for the settings set service.
type ServiceConfig struct {
	Repository storage.SettingsRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service updates the user settings.
type Service struct {
	repo   storage.SettingsRepository
	logger log.Logger
}

// NewService creates a new settings set service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the settings set request parameters, nil fields are not changed.
type Request struct {
	ServiceURL *string
	// OutputDir can be set to empty to let the service decide.
	OutputDir *string
}

// Run updates the received settings and returns the resulting ones.
func (s *Service) Run(ctx context.Context, req Request) (*model.Settings, error) {
	if req.ServiceURL == nil && req.OutputDir == nil {
		return nil, fmt.Errorf("at least one setting is required: %w", model.ErrNotValid)
	}

	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get settings: %w", err)
	}

	if req.ServiceURL != nil {
		settings.ServiceURL = *req.ServiceURL
	}
	if req.OutputDir != nil {
		settings.OutputDir = *req.OutputDir
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("could not save settings: %w", err)
	}

	s.logger.Infof("Settings updated")

	return &settings, nil
}
