package printer

import "github.com/slok/ytdlq/internal/model"

// Printer knows how to print download task information in different formats.
type Printer interface {
	PrintList(tasks []model.Task) error
	PrintStatus(task model.Task) error
	PrintSettings(settings model.Settings) error
	PrintMessage(msg string) error
}
