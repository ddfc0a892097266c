package model

import (
	"time"
)

// TaskStatus represents the state of a download task as reported by the download service.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is queued on the service.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusDownloading indicates the service is downloading the video.
	TaskStatusDownloading TaskStatus = "downloading"
	// TaskStatusCompleted indicates the download finished.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusError indicates the download failed.
	TaskStatusError TaskStatus = "error"
	// TaskStatusCancelled indicates the download was cancelled.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// IsTerminal returns true if the status can't change anymore.
// Unknown statuses are not terminal, so they keep being tracked.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case TaskStatusCompleted, TaskStatusError, TaskStatusCancelled:
		return true
	}
	return false
}

// Text returns a human friendly description of the status.
func (s TaskStatus) Text() string {
	switch s {
	case TaskStatusPending:
		return "waiting"
	case TaskStatusDownloading:
		return "downloading"
	case TaskStatusCompleted:
		return "done"
	case TaskStatusError:
		return "failed"
	case TaskStatusCancelled:
		return "cancelled"
	}
	return string(s)
}

// Task is the last known state of a download submitted to the download service.
type Task struct {
	// ID is assigned by the download service.
	ID        string
	URL       string
	Format    Format
	CreatedAt time.Time
	Status    TaskStatus
	// Message is the optional status detail reported by the service.
	Message *string
	// FilePath is set by the service once the download completes.
	FilePath *string
}
