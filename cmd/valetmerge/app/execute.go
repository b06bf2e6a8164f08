package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/valetmerge/internal/cmd/globals"
	"github.com/agentstation/valetmerge/pkg/errors"
)

// Execute runs the valetmerge CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	var flags *globals.Flags

	rootCmd := &cobra.Command{
		Use:     "valetmerge",
		Short:   "Merge Bank of Canada auction feeds into one table",
		Version: a.version,
		Long: `valetmerge downloads the Bank of Canada Valet auction observation feeds,
merges them into a single table with one column per field and saves the
result as "Total Merge.csv".

Configuration is read from .valetmerge.yaml (in $HOME or the working
directory), VALETMERGE_* environment variables and .env files. Flags win.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	flags = globals.AddFlags(rootCmd)

	rootCmd.SetVersionTemplate("valetmerge {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// when --config names a file, applies the global flags and rebuilds the
// logger.
func (a *App) setupCommand(_ *cobra.Command, flags *globals.Flags) error {
	if flags.ConfigFile != "" {
		config, err := LoadConfig(flags.ConfigFile)
		if err != nil {
			return errors.WrapResource("load", "config", flags.ConfigFile, err)
		}
		a.config = config
	}

	a.config.UpdateFromFlags(flags)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits. Interrupted runs
// exit with status 130, everything else with 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		msg, code := exitStatus(err)
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(msg + "\n")
		os.Exit(code)
	}
}

func exitStatus(err error) (string, int) {
	if errors.IsCanceled(err) {
		return "Interrupted", 130
	}
	return "Error: " + err.Error(), 1
}
