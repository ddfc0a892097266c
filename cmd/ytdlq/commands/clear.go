package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"
)

type ClearCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	yes bool
}

// NewClearCommand returns the clear command.
func NewClearCommand(rootCmd *RootCommand, app *kingpin.Application) *ClearCommand {
	c := &ClearCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("clear", "Remove all the tracked tasks from the history.")
	c.Cmd.Flag("yes", "Don't ask for confirmation.").Short('y').BoolVar(&c.yes)

	return c
}

func (c ClearCommand) Name() string { return c.Cmd.FullCommand() }

func (c ClearCommand) Run(ctx context.Context) error {
	a, err := newApp(ctx, c.rootCmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.tracker.Tasks(ctx)
	if err != nil {
		return err
	}

	p := newPrinter(c.rootCmd, outputFormatTable)
	if len(tasks) == 0 {
		return p.PrintMessage("No tasks to clear")
	}

	if !c.yes {
		fmt.Fprintf(c.rootCmd.Stdout, "Clear %d tasks from the history? [y/N]: ", len(tasks))
		if !c.confirmed() {
			return p.PrintMessage("Aborted")
		}
	}

	if err := a.tracker.ClearHistory(ctx); err != nil {
		return fmt.Errorf("could not clear history: %w", err)
	}

	if err := p.PrintMessage(fmt.Sprintf("Cleared %d tasks", len(tasks))); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}

func (c ClearCommand) confirmed() bool {
	if c.rootCmd.Stdin == nil {
		return false
	}

	sc := bufio.NewScanner(c.rootCmd.Stdin)
	if !sc.Scan() {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}
