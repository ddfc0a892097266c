package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/tracker"
)

type SubmitCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	url       string
	format    string
	outputDir string
}

// NewSubmitCommand returns the submit command.
func NewSubmitCommand(rootCmd *RootCommand, app *kingpin.Application) *SubmitCommand {
	c := &SubmitCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("submit", "Submit a video to the download service.")
	c.Cmd.Arg("url", "YouTube video URL.").Required().StringVar(&c.url)
	c.Cmd.Flag("format", "Download format (best, mp3, 1080p, 720p or a service format label).").Short('f').Default("best").StringVar(&c.format)
	c.Cmd.Flag("output-dir", "Directory where the service stores the download, defaults to the settings one.").StringVar(&c.outputDir)

	return c
}

func (c SubmitCommand) Name() string { return c.Cmd.FullCommand() }

func (c SubmitCommand) Run(ctx context.Context) error {
	a, err := newApp(ctx, c.rootCmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.tracker.Create(ctx, tracker.CreateRequest{
		URL:       c.url,
		Format:    model.ParseFormat(c.format),
		OutputDir: c.outputDir,
	})
	if err != nil {
		return fmt.Errorf("could not submit video: %w", err)
	}

	p := newPrinter(c.rootCmd, outputFormatTable)
	if err := p.PrintMessage(fmt.Sprintf("Submitted download task: %s (%s)", task.ID, task.Status)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
