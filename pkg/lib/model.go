package lib

import (
	"errors"
	"time"

	"github.com/slok/ytdlq/internal/model"
)

// TaskStatus is the state of a download task reported by the service.
//
// The lifecycle is:
//
//	pending -> downloading -> completed
//
// A task can also end as error or cancelled. Unknown statuses reported by the
// service are kept as they are and polled like pending ones.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is queued on the service.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusDownloading indicates the service is downloading the video.
	TaskStatusDownloading TaskStatus = "downloading"
	// TaskStatusCompleted indicates the download finished, the task has a file path.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusError indicates the download failed.
	TaskStatusError TaskStatus = "error"
	// TaskStatusCancelled indicates the download was cancelled.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Finished returns true when the status can't change anymore.
func (s TaskStatus) Finished() bool { return model.TaskStatus(s).IsTerminal() }

// Format is the download format label sent to the service.
type Format string

const (
	// FormatBest downloads the best video and audio.
	FormatBest = Format(model.FormatBest)
	// FormatAudioMP3 downloads only the audio as mp3.
	FormatAudioMP3 = Format(model.FormatAudioMP3)
	// Format1080p downloads 1080p video.
	Format1080p = Format(model.Format1080p)
	// Format720p downloads 720p video.
	Format720p = Format(model.Format720p)
)

// ParseFormat resolves the best, mp3, 1080p and 720p aliases, other values are
// returned as a free form label.
func ParseFormat(s string) Format { return Format(model.ParseFormat(s)) }

// Task is a tracked download task.
//
// This is a read-only snapshot of the task at the time of the API call.
type Task struct {
	// ID is assigned by the download service.
	ID  string
	URL string
	// VideoID is the video ID of the URL, empty when it can't be extracted.
	VideoID   string
	Format    Format
	Status    TaskStatus
	CreatedAt time.Time
	// Message is the status detail reported by the service, empty if none.
	Message string
	// FilePath is set once the download completes.
	FilePath string
}

// Settings are the user settings shared with the CLI.
type Settings struct {
	// ServiceURL is the download service submission endpoint.
	ServiceURL string
	// OutputDir is where the service stores the downloads, empty lets the service decide.
	OutputDir string
}

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a request or the settings are not valid.
	ErrNotValid = errors.New("not valid")
	// ErrInvalidURL is returned when a submitted URL is not a video link.
	ErrInvalidURL = errors.New("invalid video url")
	// ErrSubmissionFailed is returned when the service didn't accept a submission.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrCancelFailed is returned when the service didn't accept a cancellation.
	ErrCancelFailed = errors.New("cancel failed")
)

func fromInternalTask(t model.Task) Task {
	videoID, _ := model.ExtractVideoID(t.URL)
	task := Task{
		ID:        t.ID,
		URL:       t.URL,
		VideoID:   videoID,
		Format:    Format(t.Format),
		Status:    TaskStatus(t.Status),
		CreatedAt: t.CreatedAt,
	}
	if t.Message != nil {
		task.Message = *t.Message
	}
	if t.FilePath != nil {
		task.FilePath = *t.FilePath
	}

	return task
}

func fromInternalTaskList(ts []model.Task) []Task {
	result := make([]Task, len(ts))
	for i, t := range ts {
		result[i] = fromInternalTask(t)
	}
	return result
}

func fromInternalSettings(s model.Settings) Settings {
	return Settings{ServiceURL: s.ServiceURL, OutputDir: s.OutputDir}
}

var errorMappings = []struct {
	internal error
	public   error
}{
	{internal: model.ErrInvalidURL, public: ErrInvalidURL},
	{internal: model.ErrSubmissionFailed, public: ErrSubmissionFailed},
	{internal: model.ErrCancelFailed, public: ErrCancelFailed},
	{internal: model.ErrNotFound, public: ErrNotFound},
	{internal: model.ErrNotValid, public: ErrNotValid},
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.internal) {
			return &mappedError{original: err, sentinel: m.public}
		}
	}

	return err
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
