package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/utils/file"
)

// SettingsYAMLRepositoryConfig is the configuration for the YAML settings repository.
type SettingsYAMLRepositoryConfig struct {
	// Path is the settings file path.
	Path   string
	Logger log.Logger
}

func (c *SettingsYAMLRepositoryConfig) defaults() error {
	if c.Path == "" {
		return fmt.Errorf("settings path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SettingsYAML"})
	return nil
}

// SettingsYAMLRepository stores the user settings in a YAML file, so it can be shared
// between machines with any file sync tool.
type SettingsYAMLRepository struct {
	path   string
	logger log.Logger
}

// NewSettingsYAMLRepository creates a new YAML settings repository.
func NewSettingsYAMLRepository(cfg SettingsYAMLRepositoryConfig) (*SettingsYAMLRepository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &SettingsYAMLRepository{
		path:   cfg.Path,
		logger: cfg.Logger,
	}, nil
}

// settingsYAML represents the YAML structure of the settings file.
type settingsYAML struct {
	ServiceURL string `yaml:"service_url"`
	OutputDir  string `yaml:"output_dir,omitempty"`
}

// GetSettings loads the settings file, missing keys or a missing file use the defaults.
func (r *SettingsYAMLRepository) GetSettings(ctx context.Context) (model.Settings, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debugf("Settings file %s missing, using defaults", r.path)
			return model.DefaultSettings(), nil
		}
		return model.Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Settings{}, ctx.Err()
	}

	var s settingsYAML
	if err := yaml.Unmarshal(data, &s); err != nil {
		return model.Settings{}, fmt.Errorf("parsing YAML: %w", err)
	}

	settings := s.toModel()
	if err := settings.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings file %s: %w", r.path, err)
	}

	return settings, nil
}

// SaveSettings validates and writes the settings file.
func (r *SettingsYAMLRepository) SaveSettings(ctx context.Context, s model.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	data, err := yaml.Marshal(settingsYAML{
		ServiceURL: s.ServiceURL,
		OutputDir:  s.OutputDir,
	})
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}

	if err := file.WriteAtomic(r.path, data, 0644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}

	r.logger.Debugf("Settings saved at %s", r.path)
	return nil
}

func (s settingsYAML) toModel() model.Settings {
	settings := model.DefaultSettings()
	if s.ServiceURL != "" {
		settings.ServiceURL = s.ServiceURL
	}
	settings.OutputDir = s.OutputDir
	return settings
}
