package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/valetmerge/cmd/valetmerge/cmd/fields"
	"github.com/agentstation/valetmerge/cmd/valetmerge/cmd/merge"
	"github.com/agentstation/valetmerge/cmd/valetmerge/cmd/sources"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(sources.NewCommand(a))
	rootCmd.AddCommand(fields.NewCommand(a))
	rootCmd.AddCommand(a.CreateVersionCommand())
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("valetmerge %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
