package downloader

import (
	"context"

	"github.com/slok/ytdlq/internal/model"
)

// Client is the download service API.
type Client interface {
	// Submit asks the service to download a video, the service assigns the task ID.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	// Status returns the current state of a task.
	Status(ctx context.Context, taskID string) (*StatusResult, error)
	// Cancel asks the service to cancel a task.
	Cancel(ctx context.Context, taskID string) error
}

// SubmitRequest is a download request.
type SubmitRequest struct {
	URL    string
	Format model.Format
	// OutputDir is optional, empty lets the service decide.
	OutputDir string
}

// SubmitResult is the service answer to a download request.
type SubmitResult struct {
	TaskID string
	Status model.TaskStatus
}

// StatusResult is the state of a task reported by the service.
type StatusResult struct {
	Status   model.TaskStatus
	Message  *string
	FilePath *string
}
