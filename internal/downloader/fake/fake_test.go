package fake_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/ytdlq/internal/downloader"
	"github.com/slok/ytdlq/internal/downloader/fake"
	"github.com/slok/ytdlq/internal/model"
)

func TestClientLifecycle(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	c, err := fake.NewClient(fake.ClientConfig{})
	require.NoError(err)

	res, err := c.Submit(ctx, downloader.SubmitRequest{URL: "https://youtu.be/abc", Format: model.FormatBest})
	require.NoError(err)
	assert.Len(res.TaskID, 26)
	assert.Equal(model.TaskStatusPending, res.Status)

	got, err := c.Status(ctx, res.TaskID)
	require.NoError(err)
	assert.Equal(model.TaskStatusPending, got.Status)

	fp := "/tmp/abc.mp4"
	require.NoError(c.SetStatus(res.TaskID, downloader.StatusResult{Status: model.TaskStatusCompleted, FilePath: &fp}))
	got, err = c.Status(ctx, res.TaskID)
	require.NoError(err)
	assert.Equal(model.TaskStatusCompleted, got.Status)
	assert.Equal("/tmp/abc.mp4", *got.FilePath)

	// Cancelling a finished task is ignored by the service.
	require.NoError(c.Cancel(ctx, res.TaskID))
	got, err = c.Status(ctx, res.TaskID)
	require.NoError(err)
	assert.Equal(model.TaskStatusCompleted, got.Status)

	assert.Equal(3, c.StatusCalls(res.TaskID))
	assert.Equal(1, c.Submissions())
	assert.Equal(1, c.Cancellations())
}

func TestClientProgress(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	c, err := fake.NewClient(fake.ClientConfig{Progress: true, OutputDir: "/videos"})
	require.NoError(err)

	res, err := c.Submit(ctx, downloader.SubmitRequest{URL: "https://youtu.be/abc"})
	require.NoError(err)

	exp := []model.TaskStatus{
		model.TaskStatusPending,
		model.TaskStatusDownloading,
		model.TaskStatusCompleted,
		model.TaskStatusCompleted,
	}
	for _, expStatus := range exp {
		got, err := c.Status(ctx, res.TaskID)
		require.NoError(err)
		assert.Equal(expStatus, got.Status)
	}

	got, err := c.Status(ctx, res.TaskID)
	require.NoError(err)
	require.NotNil(got.FilePath)
	assert.Equal("/videos/"+res.TaskID+".mp4", *got.FilePath)

	// Tasks submitted to another instance are adopted.
	got, err = c.Status(ctx, "t-unknown")
	require.NoError(err)
	assert.Equal(model.TaskStatusPending, got.Status)
	require.NoError(c.Cancel(ctx, "t-other"))
}

func TestClientFailures(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ctx := context.Background()

	c, err := fake.NewClient(fake.ClientConfig{})
	require.NoError(err)

	errTest := errors.New("whatever")

	c.FailSubmit(errTest)
	_, err = c.Submit(ctx, downloader.SubmitRequest{URL: "https://youtu.be/abc"})
	assert.True(errors.Is(err, model.ErrSubmissionFailed))
	assert.True(errors.Is(err, errTest))
	c.FailSubmit(nil)

	c.AddTask("t1", downloader.StatusResult{Status: model.TaskStatusDownloading})

	c.FailStatus("t1", errTest)
	_, err = c.Status(ctx, "t1")
	assert.True(errors.Is(err, model.ErrStatusQueryFailed))
	c.FailStatus("t1", nil)
	_, err = c.Status(ctx, "t1")
	assert.NoError(err)

	c.FailCancel("t1", errTest)
	err = c.Cancel(ctx, "t1")
	assert.True(errors.Is(err, model.ErrCancelFailed))
	c.FailCancel("t1", nil)
	assert.NoError(c.Cancel(ctx, "t1"))

	got, err := c.Status(ctx, "t1")
	require.NoError(err)
	assert.Equal(model.TaskStatusCancelled, got.Status)

	_, err = c.Status(ctx, "missing")
	assert.True(errors.Is(err, model.ErrNotFound))
	assert.True(errors.Is(c.Cancel(ctx, "missing"), model.ErrNotFound))
	assert.True(errors.Is(c.SetStatus("missing", downloader.StatusResult{}), model.ErrNotFound))
}
