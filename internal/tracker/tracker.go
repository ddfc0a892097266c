package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/slok/ytdlq/internal/downloader"
	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage"
)

const (
	// DefaultPollInterval is the time between reconcile passes of Run.
	DefaultPollInterval = 5 * time.Second
	// DefaultMaxParallelQueries is the maximum number of concurrent status queries of a reconcile pass.
	DefaultMaxParallelQueries = 4

	// CancelledMessage is the message set on tasks cancelled by the user.
	CancelledMessage = "Cancelled by user"
)

// Config is the configuration of the task tracker.
type Config struct {
	Downloader         downloader.Client
	TaskRepository     storage.TaskRepository
	SettingsRepository storage.SettingsRepository
	Logger             log.Logger
	// Capacity is the maximum number of tasks kept, the oldest are evicted first.
	Capacity           int
	PollInterval       time.Duration
	MaxParallelQueries int
	// OnChange is called with the stored tasks every time they change. It is called
	// while holding the store lock, so it must not call the tracker mutating methods.
	OnChange func(tasks []model.Task)
}

func (c *Config) defaults() error {
	if c.Downloader == nil {
		return fmt.Errorf("downloader is required")
	}
	if c.TaskRepository == nil {
		return fmt.Errorf("task repository is required")
	}
	if c.SettingsRepository == nil {
		return fmt.Errorf("settings repository is required")
	}
	if c.Capacity <= 0 {
		c.Capacity = model.TaskStoreCapacity
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxParallelQueries <= 0 {
		c.MaxParallelQueries = DefaultMaxParallelQueries
	}
	if c.OnChange == nil {
		c.OnChange = func([]model.Task) {}
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tracker.Tracker"})
	return nil
}

// Tracker owns every change of the tracked download tasks after their creation.
type Tracker struct {
	dl                 downloader.Client
	taskRepo           storage.TaskRepository
	settingsRepo       storage.SettingsRepository
	logger             log.Logger
	capacity           int
	pollInterval       time.Duration
	maxParallelQueries int
	onChange           func(tasks []model.Task)

	// mu serializes the store read-modify-write cycles.
	mu sync.Mutex
	// reconcileMu is held by the in-flight reconcile pass.
	reconcileMu sync.Mutex
}

// NewTracker returns a new task tracker.
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Tracker{
		dl:                 cfg.Downloader,
		taskRepo:           cfg.TaskRepository,
		settingsRepo:       cfg.SettingsRepository,
		logger:             cfg.Logger,
		capacity:           cfg.Capacity,
		pollInterval:       cfg.PollInterval,
		maxParallelQueries: cfg.MaxParallelQueries,
		onChange:           cfg.OnChange,
	}, nil
}

// CreateRequest is a download submission.
type CreateRequest struct {
	URL string
	// Format defaults to model.DefaultFormat.
	Format model.Format
	// OutputDir defaults to the settings output directory.
	OutputDir string
}

// Create submits a download to the service and tracks the new task.
func (t *Tracker) Create(ctx context.Context, req CreateRequest) (*model.Task, error) {
	if !model.IsVideoURL(req.URL) {
		return nil, fmt.Errorf("%q: %w", req.URL, model.ErrInvalidURL)
	}

	if req.Format == "" {
		req.Format = model.DefaultFormat
	}

	if req.OutputDir == "" {
		s, err := t.settingsRepo.GetSettings(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not get settings: %w", err)
		}
		req.OutputDir = s.OutputDir
	}

	res, err := t.dl.Submit(ctx, downloader.SubmitRequest{
		URL:       req.URL,
		Format:    req.Format,
		OutputDir: req.OutputDir,
	})
	if err != nil {
		return nil, wrapIfNot(err, model.ErrSubmissionFailed)
	}

	task := model.Task{
		ID:        res.TaskID,
		URL:       req.URL,
		Format:    req.Format,
		CreatedAt: time.Now().UTC(),
		Status:    res.Status,
	}

	err = t.update(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		return model.InsertTask(tasks, task, t.capacity), true
	})
	if err != nil {
		return nil, err
	}

	t.logger.WithValues(log.Kv{"task-id": task.ID}).Infof("Download task created for %s", task.URL)

	return &task, nil
}

// Reconcile queries the service for the status of every non terminal task and stores
// the results. Failed queries leave their task unchanged, the next pass retries them.
// A pass started while another one is in flight returns without doing anything.
func (t *Tracker) Reconcile(ctx context.Context) error {
	if !t.reconcileMu.TryLock() {
		t.logger.Debugf("Reconcile already in flight, skipping")
		return nil
	}
	defer t.reconcileMu.Unlock()

	tasks, err := t.taskRepo.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("could not list tasks: %w", err)
	}

	pending := model.PendingTasks(tasks)
	if len(pending) == 0 {
		return nil
	}

	results := make([]*downloader.StatusResult, len(pending))
	g := &errgroup.Group{}
	g.SetLimit(t.maxParallelQueries)
	for i, task := range pending {
		g.Go(func() error {
			res, err := t.dl.Status(ctx, task.ID)
			if err != nil {
				t.logger.WithValues(log.Kv{"task-id": task.ID}).Warningf("Could not query task status: %s", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	updates := make(map[string]*downloader.StatusResult, len(pending))
	for i, res := range results {
		if res != nil {
			updates[pending[i].ID] = res
		}
	}
	if len(updates) == 0 {
		return nil
	}

	// Merge on the current store, tasks may have been cancelled, evicted or cleared
	// while the queries were in flight.
	return t.update(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		changed := false
		for i := range tasks {
			res, ok := updates[tasks[i].ID]
			if !ok || tasks[i].Status.IsTerminal() || sameStatus(tasks[i], res) {
				continue
			}

			tasks[i].Status = res.Status
			tasks[i].Message = res.Message
			tasks[i].FilePath = res.FilePath
			changed = true

			if res.Status.IsTerminal() {
				t.logger.WithValues(log.Kv{"task-id": tasks[i].ID}).Infof("Download task finished with status %s", res.Status)
			}
		}
		return tasks, changed
	})
}

// Cancel asks the service to cancel a task, on success the task is marked as
// cancelled. The local state is not checked before asking the service.
func (t *Tracker) Cancel(ctx context.Context, id string) error {
	err := t.dl.Cancel(ctx, id)
	if err != nil {
		return wrapIfNot(err, model.ErrCancelFailed)
	}

	msg := CancelledMessage
	err = t.update(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		i := model.FindTask(tasks, id)
		if i < 0 {
			t.logger.WithValues(log.Kv{"task-id": id}).Debugf("Cancelled task is not tracked")
			return tasks, false
		}

		tasks[i].Status = model.TaskStatusCancelled
		tasks[i].Message = &msg
		return tasks, true
	})
	if err != nil {
		return err
	}

	t.logger.WithValues(log.Kv{"task-id": id}).Infof("Download task cancelled")

	return nil
}

// ClearHistory removes all the tracked tasks.
func (t *Tracker) ClearHistory(ctx context.Context) error {
	err := t.update(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		return []model.Task{}, true
	})
	if err != nil {
		return err
	}

	t.logger.Infof("Task history cleared")

	return nil
}

// Run reconciles the tasks right away and then every poll interval until the context
// is cancelled. Reconcile errors are logged and never stop the loop.
func (t *Tracker) Run(ctx context.Context) error {
	t.logger.Infof("Polling download service every %s", t.pollInterval)

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		if err := t.Reconcile(ctx); err != nil && ctx.Err() == nil {
			t.logger.Errorf("Reconcile failed: %s", err)
		}

		select {
		case <-ctx.Done():
			t.logger.Debugf("Stopping polling")
			return nil
		case <-ticker.C:
		}
	}
}

// Tasks returns the tracked tasks, newest first.
func (t *Tracker) Tasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := t.taskRepo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}
	return tasks, nil
}

// Task returns a tracked task.
func (t *Tracker) Task(ctx context.Context, id string) (*model.Task, error) {
	tasks, err := t.Tasks(ctx)
	if err != nil {
		return nil, err
	}

	i := model.FindTask(tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	return &tasks[i], nil
}

// update runs a read-modify-write cycle on the store, the mutation returns false
// when nothing changed so nothing is persisted. The repository makes the cycle atomic
// against other processes sharing the store, mu against this one.
func (t *Tracker) update(ctx context.Context, mutate func(tasks []model.Task) ([]model.Task, bool)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		updated []model.Task
		changed bool
	)
	err := t.taskRepo.UpdateTasks(ctx, func(tasks []model.Task) ([]model.Task, bool) {
		updated, changed = mutate(model.CopyTasks(tasks))
		return updated, changed
	})
	if err != nil {
		return fmt.Errorf("could not update tasks: %w", err)
	}

	if changed {
		t.onChange(model.CopyTasks(updated))
	}

	return nil
}

// sameStatus returns true when the status result doesn't change anything of the task.
func sameStatus(task model.Task, res *downloader.StatusResult) bool {
	return task.Status == res.Status &&
		equalStrPtr(task.Message, res.Message) &&
		equalStrPtr(task.FilePath, res.FilePath)
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func wrapIfNot(err, target error) error {
	if errors.Is(err, target) {
		return err
	}
	return fmt.Errorf("%w: %w", target, err)
}
