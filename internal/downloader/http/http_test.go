package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/ytdlq/internal/downloader"
	downloaderhttp "github.com/slok/ytdlq/internal/downloader/http"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage/memory"
)

type capturedRequest struct {
	Method    string
	Path      string
	RequestID string
	Body      map[string]any
}

// newTestClient returns a client pointing to a test server, the received requests are captured.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*downloaderhttp.Client, func() []capturedRequest) {
	t.Helper()

	var mu sync.Mutex
	var reqs []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := capturedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-ID"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&c.Body)
		}
		mu.Lock()
		reqs = append(reqs, c)
		mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	settings := model.Settings{ServiceURL: srv.URL + "/api/v1/download"}
	repo, err := memory.NewRepository(memory.RepositoryConfig{Settings: &settings})
	require.NoError(t, err)

	c, err := downloaderhttp.NewClient(downloaderhttp.ClientConfig{Settings: repo})
	require.NoError(t, err)

	return c, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest{}, reqs...)
	}
}

func writeJSON(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func TestBaseURL(t *testing.T) {
	tests := map[string]struct {
		serviceURL string
		exp        string
	}{
		"Download suffix should be stripped.": {
			serviceURL: "http://localhost:8765/api/v1/download",
			exp:        "http://localhost:8765/api/v1",
		},
		"Trailing slashes should be ignored.": {
			serviceURL: "http://localhost:8765/api/v1/download/",
			exp:        "http://localhost:8765/api/v1",
		},
		"URLs without the download suffix should be used as they are.": {
			serviceURL: "http://localhost:8765/api/v1",
			exp:        "http://localhost:8765/api/v1",
		},
		"A segment only ending with download should not be stripped.": {
			serviceURL: "http://localhost:8765/api/v1/ytdownload",
			exp:        "http://localhost:8765/api/v1/ytdownload",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.exp, downloaderhttp.BaseURL(test.serviceURL))
		})
	}
}

func TestClientSubmit(t *testing.T) {
	tests := map[string]struct {
		req       downloader.SubmitRequest
		handler   http.HandlerFunc
		expResult *downloader.SubmitResult
		expBody   map[string]any
		expErrMsg string
		expErr    bool
	}{
		"A submission should be posted to the service url.": {
			req: downloader.SubmitRequest{URL: "https://youtu.be/abc", Format: model.FormatBest, OutputDir: "/videos"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"task_id":"t1","status":"pending"}`)
			},
			expBody:   map[string]any{"url": "https://youtu.be/abc", "format": "最佳质量", "output_dir": "/videos"},
			expResult: &downloader.SubmitResult{TaskID: "t1", Status: model.TaskStatusPending},
		},
		"A missing output dir should be sent as null.": {
			req: downloader.SubmitRequest{URL: "https://youtu.be/abc", Format: model.Format720p},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusCreated, `{"task_id":"t1","status":"downloading"}`)
			},
			expBody:   map[string]any{"url": "https://youtu.be/abc", "format": "720p", "output_dir": nil},
			expResult: &downloader.SubmitResult{TaskID: "t1", Status: model.TaskStatusDownloading},
		},
		"A non 2xx response should fail with the service detail.": {
			req: downloader.SubmitRequest{URL: "https://youtu.be/abc", Format: model.FormatBest},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, `{"detail":"invalid format"}`)
			},
			expErr:    true,
			expErrMsg: "HTTP 400",
		},
		"A response without task id should fail.": {
			req: downloader.SubmitRequest{URL: "https://youtu.be/abc", Format: model.FormatBest},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"status":"pending"}`)
			},
			expErr:    true,
			expErrMsg: "task_id",
		},
		"An undecodable response should fail.": {
			req: downloader.SubmitRequest{URL: "https://youtu.be/abc", Format: model.FormatBest},
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `<html>`)
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			c, reqs := newTestClient(t, test.handler)

			got, err := c.Submit(context.Background(), test.req)

			calls := reqs()
			require.Len(calls, 1)
			assert.Equal(http.MethodPost, calls[0].Method)
			assert.Equal("/api/v1/download", calls[0].Path)
			assert.NotEmpty(calls[0].RequestID)

			if test.expErr {
				require.Error(err)
				assert.True(errors.Is(err, model.ErrSubmissionFailed))
				assert.Contains(err.Error(), test.expErrMsg)
			} else {
				require.NoError(err)
				assert.Equal(test.expResult, got)
				assert.Equal(test.expBody, calls[0].Body)
			}
		})
	}
}

func TestClientSubmitErrorDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":"unsupported url"}`)
	})

	_, err := c.Submit(context.Background(), downloader.SubmitRequest{URL: "https://youtu.be/abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 422")
	assert.Contains(t, err.Error(), "unsupported url")
}

func TestClientStatus(t *testing.T) {
	tests := map[string]struct {
		handler   http.HandlerFunc
		expResult *downloader.StatusResult
		expErr    bool
	}{
		"A completed task should return the file path.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"status":"completed","file_path":"/tmp/abc.mp4"}`)
			},
			expResult: &downloader.StatusResult{Status: model.TaskStatusCompleted, FilePath: strPtr("/tmp/abc.mp4")},
		},
		"A failed task should return the message.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"status":"error","message":"video unavailable"}`)
			},
			expResult: &downloader.StatusResult{Status: model.TaskStatusError, Message: strPtr("video unavailable")},
		},
		"Unknown statuses should be returned verbatim.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"status":"merging","message":null}`)
			},
			expResult: &downloader.StatusResult{Status: model.TaskStatus("merging")},
		},
		"A missing task should fail.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, `{"detail":"Task not found"}`)
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			c, reqs := newTestClient(t, test.handler)

			got, err := c.Status(context.Background(), "t1")

			calls := reqs()
			require.Len(calls, 1)
			assert.Equal(http.MethodGet, calls[0].Method)
			assert.Equal("/api/v1/status/t1", calls[0].Path)

			if test.expErr {
				require.Error(err)
				assert.True(errors.Is(err, model.ErrStatusQueryFailed))
			} else {
				require.NoError(err)
				assert.Equal(test.expResult, got)
			}
		})
	}
}

func TestClientCancel(t *testing.T) {
	tests := map[string]struct {
		handler http.HandlerFunc
		expErr  bool
	}{
		"An acknowledged cancel should succeed.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"message":"cancelled"}`)
			},
		},
		"An empty acknowledgement should succeed.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
		"A rejected cancel should fail.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusConflict, `{"detail":"Task already finished"}`)
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			c, reqs := newTestClient(t, test.handler)

			err := c.Cancel(context.Background(), "t1")

			calls := reqs()
			require.Len(calls, 1)
			assert.Equal(http.MethodDelete, calls[0].Method)
			assert.Equal("/api/v1/download/t1", calls[0].Path)

			if test.expErr {
				require.Error(err)
				assert.True(errors.Is(err, model.ErrCancelFailed))
			} else {
				assert.NoError(err)
			}
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	settings := model.Settings{ServiceURL: srv.URL + "/api/v1/download"}
	repo, err := memory.NewRepository(memory.RepositoryConfig{Settings: &settings})
	require.NoError(t, err)

	c, err := downloaderhttp.NewClient(downloaderhttp.ClientConfig{Settings: repo, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Status(context.Background(), "t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrStatusQueryFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClientUsesCurrentSettings(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	newSrv := func(id string) *httptest.Server {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"task_id":"`+id+`","status":"pending"}`)
		}))
		t.Cleanup(srv.Close)
		return srv
	}
	srv1 := newSrv("from-1")
	srv2 := newSrv("from-2")

	settings := model.Settings{ServiceURL: srv1.URL + "/api/v1/download"}
	repo, err := memory.NewRepository(memory.RepositoryConfig{Settings: &settings})
	require.NoError(err)

	c, err := downloaderhttp.NewClient(downloaderhttp.ClientConfig{Settings: repo})
	require.NoError(err)

	res, err := c.Submit(ctx, downloader.SubmitRequest{URL: "https://youtu.be/abc"})
	require.NoError(err)
	assert.Equal("from-1", res.TaskID)

	require.NoError(repo.SaveSettings(ctx, model.Settings{ServiceURL: srv2.URL + "/api/v1/download"}))

	res, err = c.Submit(ctx, downloader.SubmitRequest{URL: "https://youtu.be/abc"})
	require.NoError(err)
	assert.Equal("from-2", res.TaskID)
}

func TestNewClientConfig(t *testing.T) {
	_, err := downloaderhttp.NewClient(downloaderhttp.ClientConfig{})
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }
