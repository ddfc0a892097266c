package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/ytdlq/internal/downloader"
	"github.com/slok/ytdlq/internal/downloader/fake"
	downloaderhttp "github.com/slok/ytdlq/internal/downloader/http"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/printer"
	"github.com/slok/ytdlq/internal/storage"
	storageio "github.com/slok/ytdlq/internal/storage/io"
	"github.com/slok/ytdlq/internal/storage/sqlite"
	"github.com/slok/ytdlq/internal/tracker"
)

// newSettingsRepository returns the settings repository, with the service URL
// overridden when the global flag is set.
func newSettingsRepository(rootCmd *RootCommand) (storage.SettingsRepository, error) {
	repo, err := storageio.NewSettingsYAMLRepository(storageio.SettingsYAMLRepositoryConfig{
		Path:   rootCmd.SettingsPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create settings repository: %w", err)
	}

	if rootCmd.ServiceURL == "" {
		return repo, nil
	}

	s := model.Settings{ServiceURL: rootCmd.ServiceURL}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service url flag: %w", err)
	}

	return serviceURLOverride{SettingsRepository: repo, serviceURL: rootCmd.ServiceURL}, nil
}

type serviceURLOverride struct {
	storage.SettingsRepository
	serviceURL string
}

func (s serviceURLOverride) GetSettings(ctx context.Context) (model.Settings, error) {
	settings, err := s.SettingsRepository.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	settings.ServiceURL = s.serviceURL
	return settings, nil
}

// newDownloader returns the download service client.
func newDownloader(rootCmd *RootCommand, settings storage.SettingsRepository) (downloader.Client, error) {
	if rootCmd.FakeService {
		rootCmd.Logger.Warningf("Using fake download service")
		return fake.NewClient(fake.ClientConfig{
			Progress: true,
			Logger:   rootCmd.Logger,
		})
	}

	return downloaderhttp.NewClient(downloaderhttp.ClientConfig{
		Settings: settings,
		Logger:   rootCmd.Logger,
	})
}

// app has the components shared by the commands that work with the tracked tasks.
type app struct {
	taskRepo     *sqlite.Repository
	settingsRepo storage.SettingsRepository
	tracker      *tracker.Tracker
}

type appOptions struct {
	pollInterval time.Duration
	onChange     func(tasks []model.Task)
}

func newApp(ctx context.Context, rootCmd *RootCommand, opts appOptions) (*app, error) {
	settingsRepo, err := newSettingsRepository(rootCmd)
	if err != nil {
		return nil, err
	}

	taskRepo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: rootCmd.DBPath,
		Logger: rootCmd.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}

	dl, err := newDownloader(rootCmd, settingsRepo)
	if err != nil {
		_ = taskRepo.Close()
		return nil, fmt.Errorf("could not create downloader: %w", err)
	}

	trk, err := tracker.NewTracker(tracker.Config{
		Downloader:         dl,
		TaskRepository:     taskRepo,
		SettingsRepository: settingsRepo,
		Logger:             rootCmd.Logger,
		PollInterval:       opts.pollInterval,
		OnChange:           opts.onChange,
	})
	if err != nil {
		_ = taskRepo.Close()
		return nil, fmt.Errorf("could not create tracker: %w", err)
	}

	return &app{
		taskRepo:     taskRepo,
		settingsRepo: settingsRepo,
		tracker:      trk,
	}, nil
}

func (a *app) Close() error { return a.taskRepo.Close() }

func newPrinter(rootCmd *RootCommand, format string) printer.Printer {
	switch format {
	case outputFormatJSON:
		return printer.NewJSONPrinter(rootCmd.Stdout)
	default: // table
		return printer.NewTablePrinter(rootCmd.Stdout)
	}
}
