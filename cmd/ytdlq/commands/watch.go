package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/tracker"
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval     time.Duration
	exitWhenDone bool
	format       string
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Poll the download service and print the tasks every time they change.")
	c.Cmd.Flag("interval", "Time between status refreshes.").Default(tracker.DefaultPollInterval.String()).DurationVar(&c.interval)
	c.Cmd.Flag("exit-when-done", "Stop when there are no unfinished tasks.").BoolVar(&c.exitWhenDone)
	outputFormatFlag(c.Cmd, &c.format)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := newPrinter(c.rootCmd, c.format)
	printTasks := func(tasks []model.Task) {
		if c.format == outputFormatTable {
			fmt.Fprintf(c.rootCmd.Stdout, "\n%s\n", time.Now().UTC().Format(time.TimeOnly))
		}
		if err := p.PrintList(tasks); err != nil {
			c.rootCmd.Logger.Errorf("Could not print tasks: %s", err)
		}
		if c.exitWhenDone && len(model.PendingTasks(tasks)) == 0 {
			cancel()
		}
	}

	a, err := newApp(ctx, c.rootCmd, appOptions{
		pollInterval: c.interval,
		onChange:     printTasks,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.tracker.Tasks(ctx)
	if err != nil {
		return err
	}
	printTasks(tasks)

	if err := a.tracker.Run(ctx); err != nil {
		return fmt.Errorf("polling failed: %w", err)
	}

	return nil
}
