package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Settings are the initial settings, defaults are used if missing.
	Settings *model.Settings
	Logger   log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Settings == nil {
		s := model.DefaultSettings()
		c.Settings = &s
	}

	if err := c.Settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.TaskRepository and storage.SettingsRepository.
type Repository struct {
	tasks    []model.Task
	settings model.Settings
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		settings: *cfg.Settings,
		logger:   cfg.Logger,
	}, nil
}

// ListTasks returns a copy of the stored tasks.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return model.CopyTasks(r.tasks), nil
}

// SaveTasks replaces the stored tasks.
func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveTasks(tasks)
}

// UpdateTasks runs the mutation and saves its result holding the repository lock.
func (r *Repository) UpdateTasks(ctx context.Context, mutate func(tasks []model.Task) ([]model.Task, bool)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks, changed := mutate(model.CopyTasks(r.tasks))
	if !changed {
		return nil
	}

	return r.saveTasks(tasks)
}

func (r *Repository) saveTasks(tasks []model.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task id is required: %w", model.ErrNotValid)
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		seen[t.ID] = struct{}{}
	}

	r.tasks = model.CopyTasks(tasks)
	r.logger.Debugf("Saved %d tasks in repository", len(tasks))

	return nil
}

// GetSettings returns the stored settings.
func (r *Repository) GetSettings(ctx context.Context) (model.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.settings, nil
}

// SaveSettings validates and stores the settings.
func (r *Repository) SaveSettings(ctx context.Context, s model.Settings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = s
	r.logger.Debugf("Saved settings in repository")

	return nil
}
