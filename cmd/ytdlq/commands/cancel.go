package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/ytdlq/internal/app/status"
	"github.com/slok/ytdlq/internal/model"
)

type CancelCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	id string
}

// NewCancelCommand returns the cancel command.
func NewCancelCommand(rootCmd *RootCommand, app *kingpin.Application) *CancelCommand {
	c := &CancelCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("cancel", "Cancel a download task.")
	c.Cmd.Arg("id", "Task ID or a unique prefix of a tracked task ID.").Required().StringVar(&c.id)

	return c
}

func (c CancelCommand) Name() string { return c.Cmd.FullCommand() }

func (c CancelCommand) Run(ctx context.Context) error {
	a, err := newApp(ctx, c.rootCmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	// Resolve ID prefixes of tracked tasks, unknown IDs are sent as they are.
	id := c.id
	svc, err := status.NewService(status.ServiceConfig{
		Repository: a.taskRepo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}
	task, err := svc.Run(ctx, status.Request{ID: c.id})
	switch {
	case err == nil:
		id = task.ID
	case errors.Is(err, model.ErrNotFound):
	default:
		return fmt.Errorf("could not resolve task: %w", err)
	}

	if err := a.tracker.Cancel(ctx, id); err != nil {
		return fmt.Errorf("could not cancel task: %w", err)
	}

	if err := newPrinter(c.rootCmd, outputFormatTable).PrintMessage(fmt.Sprintf("Cancelled download task: %s", id)); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
