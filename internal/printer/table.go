package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/ytdlq/internal/model"
)

// TablePrinter prints download task information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

var _ Printer = &TablePrinter{}

// PrintList prints the tasks in a table format.
func (t *TablePrinter) PrintList(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tVIDEO\tFORMAT\tSTATUS\tCREATED\tDETAIL")

	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			task.ID,
			videoName(task.URL),
			task.Format.Alias(),
			task.Status,
			TimeAgo(task.CreatedAt),
			detail(task),
		)
	}

	return nil
}

// PrintStatus prints detailed task status.
func (t *TablePrinter) PrintStatus(task model.Task) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "URL:        %s\n", task.URL)
	if id, ok := model.ExtractVideoID(task.URL); ok {
		fmt.Fprintf(t.writer, "Video:      %s\n", id)
	}
	fmt.Fprintf(t.writer, "Format:     %s\n", task.Format)
	fmt.Fprintf(t.writer, "Status:     %s (%s)\n", task.Status, task.Status.Text())
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(task.CreatedAt))

	if task.Message != nil {
		fmt.Fprintf(t.writer, "Message:    %s\n", *task.Message)
	}

	if task.FilePath != nil {
		fmt.Fprintf(t.writer, "File:       %s\n", *task.FilePath)
	}

	return nil
}

// PrintSettings prints the settings.
func (t *TablePrinter) PrintSettings(s model.Settings) error {
	outputDir := s.OutputDir
	if outputDir == "" {
		outputDir = "(service default)"
	}

	fmt.Fprintf(t.writer, "Service URL:  %s\n", s.ServiceURL)
	fmt.Fprintf(t.writer, "Output dir:   %s\n", outputDir)

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}

func videoName(url string) string {
	if id, ok := model.ExtractVideoID(url); ok {
		return id
	}
	return url
}

func detail(t model.Task) string {
	switch {
	case t.FilePath != nil:
		return *t.FilePath
	case t.Message != nil:
		return *t.Message
	}
	return "-"
}
