package fake

import (
	"context"
	"crypto/rand"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/ytdlq/internal/downloader"
	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
)

// ClientConfig is the configuration for the fake download service.
type ClientConfig struct {
	// Progress makes every status query move the task one step forward
	// (pending, downloading, completed), useful for demos. Unknown tasks are
	// adopted as pending instead of failing.
	Progress bool
	// OutputDir is used to build the file paths of completed tasks.
	OutputDir string
	Logger    log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.OutputDir == "" {
		c.OutputDir = "/downloads"
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "downloader.Fake"})
	return nil
}

type task struct {
	req    downloader.SubmitRequest
	status downloader.StatusResult
}

// Client is an in-memory download service implementing downloader.Client.
type Client struct {
	progress  bool
	outputDir string
	logger    log.Logger

	mu          sync.Mutex
	tasks       map[string]*task
	submitErr   error
	statusErrs  map[string]error
	cancelErrs  map[string]error
	statusCalls map[string]int
	submits     int
	cancels     int
}

// NewClient creates a new fake download service.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		progress:    cfg.Progress,
		outputDir:   cfg.OutputDir,
		logger:      cfg.Logger,
		tasks:       map[string]*task{},
		statusErrs:  map[string]error{},
		cancelErrs:  map[string]error{},
		statusCalls: map[string]int{},
	}, nil
}

var _ downloader.Client = &Client{}

func (c *Client) Submit(_ context.Context, req downloader.SubmitRequest) (*downloader.SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.submits++
	if c.submitErr != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSubmissionFailed, c.submitErr)
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	c.tasks[id] = &task{
		req:    req,
		status: downloader.StatusResult{Status: model.TaskStatusPending},
	}
	c.logger.Infof("Created fake download task: %s (%s)", id, req.URL)

	return &downloader.SubmitResult{TaskID: id, Status: model.TaskStatusPending}, nil
}

func (c *Client) Status(_ context.Context, taskID string) (*downloader.StatusResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statusCalls[taskID]++
	if err := c.statusErrs[taskID]; err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStatusQueryFailed, err)
	}

	t, ok := c.tasks[taskID]
	if !ok && c.progress {
		t = &task{status: downloader.StatusResult{Status: model.TaskStatusPending}}
		c.tasks[taskID] = t
		ok = true
	}
	if !ok {
		return nil, fmt.Errorf("%w: task %s: %w", model.ErrStatusQueryFailed, taskID, model.ErrNotFound)
	}

	res := copyStatus(t.status)
	if c.progress {
		c.advance(taskID, t)
	}

	return &res, nil
}

func (c *Client) Cancel(_ context.Context, taskID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancels++
	if err := c.cancelErrs[taskID]; err != nil {
		return fmt.Errorf("%w: %w", model.ErrCancelFailed, err)
	}

	t, ok := c.tasks[taskID]
	if !ok && c.progress {
		t = &task{status: downloader.StatusResult{Status: model.TaskStatusPending}}
		c.tasks[taskID] = t
		ok = true
	}
	if !ok {
		return fmt.Errorf("%w: task %s: %w", model.ErrCancelFailed, taskID, model.ErrNotFound)
	}

	if !t.status.Status.IsTerminal() {
		t.status = downloader.StatusResult{Status: model.TaskStatusCancelled}
	}
	c.logger.Infof("Cancelled fake download task: %s", taskID)

	return nil
}

// AddTask registers a task as if it had been submitted before.
func (c *Client) AddTask(taskID string, status downloader.StatusResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks[taskID] = &task{status: copyStatus(status)}
}

// SetStatus sets the status the service reports for a task.
func (c *Client) SetStatus(taskID string, status downloader.StatusResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.tasks[taskID]
	if !ok {
		return fmt.Errorf("task %s: %w", taskID, model.ErrNotFound)
	}
	t.status = copyStatus(status)

	return nil
}

// FailSubmit makes the next submissions fail with err, nil restores them.
func (c *Client) FailSubmit(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitErr = err
}

// FailStatus makes the status queries of a task fail with err, nil restores them.
func (c *Client) FailStatus(taskID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.statusErrs, taskID)
		return
	}
	c.statusErrs[taskID] = err
}

// FailCancel makes the cancellations of a task fail with err, nil restores them.
func (c *Client) FailCancel(taskID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.cancelErrs, taskID)
		return
	}
	c.cancelErrs[taskID] = err
}

// StatusCalls returns the number of status queries received for a task.
func (c *Client) StatusCalls(taskID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusCalls[taskID]
}

// TotalStatusCalls returns the number of status queries received.
func (c *Client) TotalStatusCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.statusCalls {
		total += n
	}
	return total
}

// Submissions returns the number of submissions received, including failed ones.
func (c *Client) Submissions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submits
}

// Cancellations returns the number of cancellations received, including failed ones.
func (c *Client) Cancellations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancels
}

// Request returns the submission received for a task.
func (c *Client) Request(taskID string) (downloader.SubmitRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tasks[taskID]
	if !ok {
		return downloader.SubmitRequest{}, false
	}
	return t.req, true
}

func (c *Client) advance(taskID string, t *task) {
	switch t.status.Status {
	case model.TaskStatusPending:
		t.status = downloader.StatusResult{Status: model.TaskStatusDownloading}
	case model.TaskStatusDownloading:
		dir := t.req.OutputDir
		if dir == "" {
			dir = c.outputDir
		}
		fp := path.Join(dir, taskID+".mp4")
		t.status = downloader.StatusResult{Status: model.TaskStatusCompleted, FilePath: &fp}
	}
}

func copyStatus(s downloader.StatusResult) downloader.StatusResult {
	if s.Message != nil {
		m := *s.Message
		s.Message = &m
	}
	if s.FilePath != nil {
		f := *s.FilePath
		s.FilePath = &f
	}
	return s
}
