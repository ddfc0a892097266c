package status

import (
	"context"
	"fmt"
	"strings"

	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage"
)

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	Repository storage.TaskRepository
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

// Service retrieves a tracked download task.
type Service struct {
	repo   storage.TaskRepository
	logger log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the status request parameters.
type Request struct {
	// ID is the task ID or a unique prefix of it.
	ID string
}

// Run retrieves a task by its ID. When there is no exact match, a unique ID prefix
// is accepted so the long service IDs don't need to be typed.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	s.logger.Debugf("getting status for task: %s", req.ID)

	if req.ID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get task status: %w", err)
	}

	if i := model.FindTask(tasks, req.ID); i >= 0 {
		return &tasks[i], nil
	}

	var matches []model.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, req.ID) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("task not found: %s: %w", req.ID, model.ErrNotFound)
	case 1:
		s.logger.Debugf("found task by prefix: %s", matches[0].ID)
		return &matches[0], nil
	}

	return nil, fmt.Errorf("task id prefix %s matches %d tasks: %w", req.ID, len(matches), model.ErrNotValid)
}
