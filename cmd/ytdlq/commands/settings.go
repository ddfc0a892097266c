package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/ytdlq/internal/app/settingsset"
)

// NewSettingsCommand returns the settings parent command.
func NewSettingsCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("settings", "Manage the user settings.")
}

type SettingsShowCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewSettingsShowCommand returns the settings show command.
func NewSettingsShowCommand(rootCmd *RootCommand, settingsCmd *kingpin.CmdClause) *SettingsShowCommand {
	c := &SettingsShowCommand{rootCmd: rootCmd}

	c.Cmd = settingsCmd.Command("show", "Show the current settings.")
	outputFormatFlag(c.Cmd, &c.format)

	return c
}

func (c SettingsShowCommand) Name() string { return c.Cmd.FullCommand() }

func (c SettingsShowCommand) Run(ctx context.Context) error {
	repo, err := newSettingsRepository(c.rootCmd)
	if err != nil {
		return err
	}

	s, err := repo.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("could not get settings: %w", err)
	}

	if err := newPrinter(c.rootCmd, c.format).PrintSettings(s); err != nil {
		return fmt.Errorf("could not print settings: %w", err)
	}

	return nil
}

type SettingsSetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	serviceURL     string
	serviceURLSet  bool
	outputDir      string
	outputDirSet   bool
	unsetOutputDir bool
}

// NewSettingsSetCommand returns the settings set command.
func NewSettingsSetCommand(rootCmd *RootCommand, settingsCmd *kingpin.CmdClause) *SettingsSetCommand {
	c := &SettingsSetCommand{rootCmd: rootCmd}

	c.Cmd = settingsCmd.Command("set", "Update the settings.")
	c.Cmd.Flag("url", "Download service URL (e.g. http://localhost:8765/api/v1/download).").IsSetByUser(&c.serviceURLSet).StringVar(&c.serviceURL)
	c.Cmd.Flag("output-dir", "Directory where the service stores the downloads.").IsSetByUser(&c.outputDirSet).StringVar(&c.outputDir)
	c.Cmd.Flag("unset-output-dir", "Let the service decide where to store the downloads.").BoolVar(&c.unsetOutputDir)

	return c
}

func (c SettingsSetCommand) Name() string { return c.Cmd.FullCommand() }

func (c SettingsSetCommand) Run(ctx context.Context) error {
	// The override flag must not end in the settings file.
	rootCmd := *c.rootCmd
	rootCmd.ServiceURL = ""
	repo, err := newSettingsRepository(&rootCmd)
	if err != nil {
		return err
	}

	svc, err := settingsset.NewService(settingsset.ServiceConfig{
		Repository: repo,
		Logger:     c.rootCmd.Logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	req := settingsset.Request{}
	if c.serviceURLSet {
		req.ServiceURL = &c.serviceURL
	}
	if c.outputDirSet {
		req.OutputDir = &c.outputDir
	}
	if c.unsetOutputDir {
		empty := ""
		req.OutputDir = &empty
	}

	s, err := svc.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("could not update settings: %w", err)
	}

	if err := newPrinter(c.rootCmd, outputFormatTable).PrintSettings(*s); err != nil {
		return fmt.Errorf("could not print settings: %w", err)
	}

	return nil
}
