package commands

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
)

type FolderCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewFolderCommand returns the folder command.
func NewFolderCommand(rootCmd *RootCommand, app *kingpin.Application) *FolderCommand {
	c := &FolderCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("folder", "Print the file URL of the configured downloads directory.")

	return c
}

func (c FolderCommand) Name() string { return c.Cmd.FullCommand() }

func (c FolderCommand) Run(ctx context.Context) error {
	repo, err := newSettingsRepository(c.rootCmd)
	if err != nil {
		return err
	}

	s, err := repo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("could not get settings: %w", err)
	}

	if s.OutputDir == "" {
		return fmt.Errorf("output directory is not configured, set it with 'settings set --output-dir'")
	}

	dir, err := filepath.Abs(s.OutputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dir)}
	if err := newPrinter(c.rootCmd, outputFormatTable).PrintMessage(u.String()); err != nil {
		return fmt.Errorf("could not print message: %w", err)
	}

	return nil
}
