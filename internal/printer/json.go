package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/ytdlq/internal/model"
)

// JSONPrinter prints download task information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

var _ Printer = &JSONPrinter{}

// taskOutput represents a download task output.
type taskOutput struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	VideoID   string    `json:"video_id,omitempty"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	Message   *string   `json:"message"`
	FilePath  *string   `json:"file_path"`
	CreatedAt time.Time `json:"created_at"`
}

type settingsOutput struct {
	ServiceURL string `json:"service_url"`
	OutputDir  string `json:"output_dir"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

func newTaskOutput(t model.Task) taskOutput {
	videoID, _ := model.ExtractVideoID(t.URL)
	return taskOutput{
		ID:        t.ID,
		URL:       t.URL,
		VideoID:   videoID,
		Format:    string(t.Format),
		Status:    string(t.Status),
		Message:   t.Message,
		FilePath:  t.FilePath,
		CreatedAt: t.CreatedAt.UTC(),
	}
}

// PrintList prints the tasks in JSON format.
func (j *JSONPrinter) PrintList(tasks []model.Task) error {
	items := make([]taskOutput, len(tasks))
	for i, t := range tasks {
		items[i] = newTaskOutput(t)
	}

	return j.encode(items)
}

// PrintStatus prints a task in JSON format.
func (j *JSONPrinter) PrintStatus(task model.Task) error {
	return j.encode(newTaskOutput(task))
}

// PrintSettings prints the settings in JSON format.
func (j *JSONPrinter) PrintSettings(s model.Settings) error {
	return j.encode(settingsOutput{
		ServiceURL: s.ServiceURL,
		OutputDir:  s.OutputDir,
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
