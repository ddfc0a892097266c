package lib

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"k8s.io/client-go/util/homedir"

	"github.com/slok/ytdlq/internal/app/settingsset"
	"github.com/slok/ytdlq/internal/conventions"
	"github.com/slok/ytdlq/internal/downloader"
	"github.com/slok/ytdlq/internal/downloader/fake"
	downloaderhttp "github.com/slok/ytdlq/internal/downloader/http"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage"
	storageio "github.com/slok/ytdlq/internal/storage/io"
	"github.com/slok/ytdlq/internal/storage/sqlite"
	"github.com/slok/ytdlq/internal/tracker"
	"github.com/slok/ytdlq/pkg/lib/log"
)

// Config configures the SDK client.
type Config struct {
	// DBPath is the path to the SQLite task store.
	// Default: ~/.ytdlq/ytdlq.db.
	DBPath string
	// SettingsPath is the path to the YAML settings file.
	// Default: ~/.ytdlq/settings.yaml.
	SettingsPath string
	// FakeService uses an in-memory download service instead of the HTTP one.
	// Useful for tests.
	FakeService bool
	// PollInterval is the time between status polls of [Client.Watch] and [Client.Wait].
	// Default: 5s.
	PollInterval time.Duration
	// OnChange is called with the tracked tasks every time they change.
	// It must not call the client methods that change tasks.
	OnChange func(tasks []Task)
	// Logger for the SDK. Default: [log.Noop].
	Logger log.Logger
}

func (c *Config) defaults() error {
	dataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	if c.DBPath == "" {
		c.DBPath = conventions.DBPath(dataDir)
	}
	if c.SettingsPath == "" {
		c.SettingsPath = conventions.SettingsPath(dataDir)
	}
	if c.PollInterval <= 0 {
		c.PollInterval = tracker.DefaultPollInterval
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	return nil
}

// Client is the SDK entry point to submit and track downloads.
//
// All methods are safe for concurrent use. Call [Client.Close] when done.
type Client struct {
	repo         *sqlite.Repository
	settingsRepo storage.SettingsRepository
	tracker      *tracker.Tracker
	pollInterval time.Duration
	logger       log.Logger
}

// New creates a new SDK client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	settingsRepo, err := storageio.NewSettingsYAMLRepository(storageio.SettingsYAMLRepositoryConfig{
		Path:   cfg.SettingsPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create settings repository: %w", err)
	}

	var dl downloader.Client
	if cfg.FakeService {
		dl, err = fake.NewClient(fake.ClientConfig{Progress: true, Logger: cfg.Logger})
	} else {
		dl, err = downloaderhttp.NewClient(downloaderhttp.ClientConfig{Settings: settingsRepo, Logger: cfg.Logger})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create download service client: %w", err)
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	var onChange func([]model.Task)
	if cfg.OnChange != nil {
		onChange = func(ts []model.Task) { cfg.OnChange(fromInternalTaskList(ts)) }
	}

	trk, err := tracker.NewTracker(tracker.Config{
		Downloader:         dl,
		TaskRepository:     repo,
		SettingsRepository: settingsRepo,
		Logger:             cfg.Logger,
		PollInterval:       cfg.PollInterval,
		OnChange:           onChange,
	})
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("could not create tracker: %w", err)
	}

	return &Client{
		repo:         repo,
		settingsRepo: settingsRepo,
		tracker:      trk,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
	}, nil
}

// Close releases the task store.
func (c *Client) Close() error {
	return c.repo.Close()
}

// SubmitOpts are the optional submission parameters.
type SubmitOpts struct {
	// Format defaults to [FormatBest].
	Format Format
	// OutputDir defaults to the settings output directory.
	OutputDir string
}

// Submit sends a download to the service and tracks the new task.
//
// Returns [ErrInvalidURL] when the URL is not a video link and
// [ErrSubmissionFailed] when the service didn't accept it.
func (c *Client) Submit(ctx context.Context, url string, opts *SubmitOpts) (*Task, error) {
	req := tracker.CreateRequest{URL: url}
	if opts != nil {
		req.Format = model.Format(opts.Format)
		req.OutputDir = opts.OutputDir
	}

	t, err := c.tracker.Create(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	task := fromInternalTask(*t)
	return &task, nil
}

// Tasks returns the tracked tasks, newest first.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	ts, err := c.tracker.Tasks(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return fromInternalTaskList(ts), nil
}

// Task returns a tracked task by its ID, [ErrNotFound] if it's not tracked.
func (c *Client) Task(ctx context.Context, id string) (*Task, error) {
	t, err := c.tracker.Task(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	task := fromInternalTask(*t)
	return &task, nil
}

// Cancel asks the service to cancel a task and marks it as cancelled.
//
// Returns [ErrCancelFailed] when the service didn't accept the cancellation,
// the tracked task is not changed in that case.
func (c *Client) Cancel(ctx context.Context, id string) error {
	return mapError(c.tracker.Cancel(ctx, id))
}

// ClearHistory removes all the tracked tasks. The downloads on the service are not affected.
func (c *Client) ClearHistory(ctx context.Context) error {
	return mapError(c.tracker.ClearHistory(ctx))
}

// Reconcile polls the service once for the unfinished tasks.
func (c *Client) Reconcile(ctx context.Context) error {
	return mapError(c.tracker.Reconcile(ctx))
}

// Watch polls the service every poll interval until the context is cancelled.
func (c *Client) Watch(ctx context.Context) error {
	return c.tracker.Run(ctx)
}

// Wait polls the service until the task finishes and returns it.
func (c *Client) Wait(ctx context.Context, id string) (*Task, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if err := c.Reconcile(ctx); err != nil && ctx.Err() == nil {
			c.logger.Warningf("Could not reconcile tasks: %s", err)
		}

		task, err := c.Task(ctx, id)
		if err != nil {
			return nil, err
		}
		if task.Status.Finished() {
			return task, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Settings returns the current user settings.
func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	s, err := c.settingsRepo.GetSettings(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	settings := fromInternalSettings(s)
	return &settings, nil
}

// UpdateSettingsOpts are the settings to change, nil fields are not changed.
type UpdateSettingsOpts struct {
	ServiceURL *string
	// OutputDir set to empty lets the service decide.
	OutputDir *string
}

// UpdateSettings changes and stores the user settings, returns [ErrNotValid] on invalid settings.
func (c *Client) UpdateSettings(ctx context.Context, opts UpdateSettingsOpts) (*Settings, error) {
	svc, err := settingsset.NewService(settingsset.ServiceConfig{
		Repository: c.settingsRepo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	s, err := svc.Run(ctx, settingsset.Request{
		ServiceURL: opts.ServiceURL,
		OutputDir:  opts.OutputDir,
	})
	if err != nil {
		return nil, mapError(err)
	}

	settings := fromInternalSettings(*s)
	return &settings, nil
}
