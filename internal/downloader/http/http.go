package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slok/ytdlq/internal/downloader"
	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage"
)

const (
	// DefaultTimeout is the maximum duration of a single call to the download service.
	DefaultTimeout = 10 * time.Second

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 4096
)

// ClientConfig is the configuration of the HTTP download service client.
type ClientConfig struct {
	// Settings is where the service URL is read from on every call.
	Settings   storage.SettingsRepository
	HTTPClient *http.Client
	// Timeout applies to each call independently of the context deadline.
	Timeout time.Duration
	Logger  log.Logger
}

func (c *ClientConfig) defaults() error {
	if c.Settings == nil {
		return fmt.Errorf("settings repository is required")
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "downloader.HTTP"})
	return nil
}

// Client is the download service REST API client.
type Client struct {
	settings   storage.SettingsRepository
	httpClient *http.Client
	timeout    time.Duration
	logger     log.Logger
}

// NewClient returns a new HTTP download service client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		settings:   cfg.Settings,
		httpClient: cfg.HTTPClient,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}, nil
}

var _ downloader.Client = &Client{}

type submitRequestJSON struct {
	URL       string  `json:"url"`
	Format    string  `json:"format"`
	OutputDir *string `json:"output_dir"`
}

type submitResponseJSON struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type statusResponseJSON struct {
	Status   string  `json:"status"`
	Message  *string `json:"message"`
	FilePath *string `json:"file_path"`
}

type errorResponseJSON struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) Submit(ctx context.Context, req downloader.SubmitRequest) (*downloader.SubmitResult, error) {
	serviceURL, err := c.serviceURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSubmissionFailed, err)
	}

	body := submitRequestJSON{
		URL:    req.URL,
		Format: string(req.Format),
	}
	if req.OutputDir != "" {
		body.OutputDir = &req.OutputDir
	}

	var resp submitResponseJSON
	err = c.do(ctx, http.MethodPost, serviceURL, body, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrSubmissionFailed, err)
	}

	if resp.TaskID == "" {
		return nil, fmt.Errorf("%w: response without task_id", model.ErrSubmissionFailed)
	}

	return &downloader.SubmitResult{
		TaskID: resp.TaskID,
		Status: model.TaskStatus(resp.Status),
	}, nil
}

func (c *Client) Status(ctx context.Context, taskID string) (*downloader.StatusResult, error) {
	serviceURL, err := c.serviceURL(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStatusQueryFailed, err)
	}

	u := BaseURL(serviceURL) + "/status/" + url.PathEscape(taskID)

	var resp statusResponseJSON
	err = c.do(ctx, http.MethodGet, u, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrStatusQueryFailed, err)
	}

	return &downloader.StatusResult{
		Status:   model.TaskStatus(resp.Status),
		Message:  resp.Message,
		FilePath: resp.FilePath,
	}, nil
}

func (c *Client) Cancel(ctx context.Context, taskID string) error {
	serviceURL, err := c.serviceURL(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrCancelFailed, err)
	}

	u := BaseURL(serviceURL) + "/download/" + url.PathEscape(taskID)

	// The cancel response is only an acknowledgement.
	err = c.do(ctx, http.MethodDelete, u, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrCancelFailed, err)
	}

	return nil
}

// BaseURL returns the service API root, the service URL without its trailing
// "/download" segment. URLs without that segment are returned as they are.
func BaseURL(serviceURL string) string {
	u := strings.TrimRight(serviceURL, "/")
	if base, ok := strings.CutSuffix(u, "/download"); ok {
		return base
	}
	return u
}

func (c *Client) serviceURL(ctx context.Context) (string, error) {
	s, err := c.settings.GetSettings(ctx)
	if err != nil {
		return "", fmt.Errorf("could not get settings: %w", err)
	}
	return s.ServiceURL, nil
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyR io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyR = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyR)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.WithValues(log.Kv{"request-id": requestID, "method": method, "url": u})
	logger.Debugf("Calling download service")
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debugf("Download service call failed: %s", err)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	logger.WithValues(log.Kv{"status": resp.StatusCode, "duration": time.Since(start).String()}).Debugf("Download service answered")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp, u)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", u, err)
	}

	return nil
}

func responseError(resp *http.Response, u string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	detail := errorDetail(data)
	if detail == "" {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, u)
	}

	return fmt.Errorf("HTTP %d from %s: %s", resp.StatusCode, u, detail)
}

// errorDetail gets the error description of the service error body, the detail can be
// a plain string or a list of validation errors.
func errorDetail(data []byte) string {
	var e errorResponseJSON
	if err := json.Unmarshal(data, &e); err != nil || len(e.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}

	return string(e.Detail)
}
