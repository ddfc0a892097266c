package storage

import (
	"context"

	"github.com/slok/ytdlq/internal/model"
)

// TaskRepository is the interface for the task store persistence.
// The store is handled as a whole snapshot, ordered newest first.
type TaskRepository interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	// SaveTasks replaces the stored tasks with the received ones.
	SaveTasks(ctx context.Context, tasks []model.Task) error
	// UpdateTasks runs a read-modify-write cycle of the stored tasks atomically, no other
	// writer (in this or other processes) can change the store in between. The mutation
	// returns false when nothing changed, then nothing is saved.
	UpdateTasks(ctx context.Context, mutate func(tasks []model.Task) ([]model.Task, bool)) error
}

// SettingsRepository is the interface for the user settings persistence.
type SettingsRepository interface {
	// GetSettings returns the default settings when nothing is stored.
	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) error
}
