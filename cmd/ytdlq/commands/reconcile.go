package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type ReconcileCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewReconcileCommand returns the reconcile command.
func NewReconcileCommand(rootCmd *RootCommand, app *kingpin.Application) *ReconcileCommand {
	c := &ReconcileCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("reconcile", "Refresh the unfinished tasks from the download service once.")
	outputFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ReconcileCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReconcileCommand) Run(ctx context.Context) error {
	a, err := newApp(ctx, c.rootCmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Reconcile(ctx); err != nil {
		return fmt.Errorf("could not reconcile tasks: %w", err)
	}

	tasks, err := a.tracker.Tasks(ctx)
	if err != nil {
		return err
	}

	if err := newPrinter(c.rootCmd, c.format).PrintList(tasks); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
