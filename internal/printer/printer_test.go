package printer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/printer"
)

func strPtr(s string) *string { return &s }

func taskFixture() model.Task {
	return model.Task{
		ID:        "01JA2B3C4D5E6F7G8H9J0KMNPQ",
		URL:       "https://www.youtube.com/watch?v=abc123",
		Format:    model.FormatAudioMP3,
		CreatedAt: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
		Status:    model.TaskStatusCompleted,
		FilePath:  strPtr("/videos/abc123.mp3"),
	}
}

func TestTablePrinterPrintList(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	failed := model.Task{
		ID:        "t2",
		URL:       "https://example.com/youtube.com",
		Format:    model.FormatBest,
		CreatedAt: time.Now(),
		Status:    model.TaskStatusError,
		Message:   strPtr("video unavailable"),
	}
	err := p.PrintList([]model.Task{failed, taskFixture()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^ID\s+VIDEO\s+FORMAT\s+STATUS\s+CREATED\s+DETAIL$`, lines[0])
	assert.Regexp(t, `^t2\s+https://example.com/youtube.com\s+best\s+error\s+.*video unavailable$`, lines[1])
	assert.Regexp(t, `^01JA2B3C4D5E6F7G8H9J0KMNPQ\s+abc123\s+mp3\s+completed\s+.*/videos/abc123.mp3$`, lines[2])
}

func TestTablePrinterPrintListEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	require.NoError(t, p.PrintList(nil))
	assert.Empty(t, buf.String())
}

func TestTablePrinterPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintStatus(taskFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Video:      abc123")
	assert.Contains(t, out, "Format:     仅音频 (MP3)")
	assert.Contains(t, out, "Status:     completed (done)")
	assert.Contains(t, out, "Created:    2026-10-01 10:00:00 UTC")
	assert.Contains(t, out, "File:       /videos/abc123.mp3")
	assert.NotContains(t, out, "Message:")
}

func TestJSONPrinterPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintStatus(taskFixture())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"video_id": "abc123"`)
	assert.Contains(t, out, `"status": "completed"`)
	assert.Contains(t, out, `"message": null`)
	assert.Contains(t, out, `"file_path": "/videos/abc123.mp3"`)
	assert.Contains(t, out, `"created_at": "2026-10-01T10:00:00Z"`)
}

func TestJSONPrinterPrintListEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintList([]model.Task{}))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestPrintSettings(t *testing.T) {
	s := model.Settings{ServiceURL: model.DefaultServiceURL}

	var buf bytes.Buffer
	require.NoError(t, printer.NewTablePrinter(&buf).PrintSettings(s))
	assert.Contains(t, buf.String(), "Service URL:  http://localhost:8765/api/v1/download")
	assert.Contains(t, buf.String(), "Output dir:   (service default)")

	buf.Reset()
	require.NoError(t, printer.NewJSONPrinter(&buf).PrintSettings(s))
	assert.Contains(t, buf.String(), `"service_url": "http://localhost:8765/api/v1/download"`)
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}
