// Package globals provides shared flag structures and utilities for CLI commands.
package globals

import "github.com/spf13/cobra"

// Flags holds global common flags across all commands.
type Flags struct {
	ConfigFile string
	Format     string
	LogLevel   string
	Quiet      bool
	Verbose    bool
	NoColor    bool
}

// AddFlags adds common flags to the root command.
func AddFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "",
		"config file (default is $HOME/.valetmerge.yaml or ./.valetmerge.yaml)")
	cmd.PersistentFlags().StringVarP(&flags.Format, "format", "o", "",
		"Output format: table, json, yaml, markdown")
	cmd.PersistentFlags().StringVar(&flags.Format, "fmt", "", "")
	_ = cmd.PersistentFlags().MarkHidden("fmt") // Hidden but functional

	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "",
		"log level: trace, debug, info, warn, error (overrides -v/-q)")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false,
		"minimal output (shortcut for --log-level=warn)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false,
		"verbose output (shortcut for --log-level=debug)")
	cmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false,
		"disable colored output")

	return flags
}

// Parse extracts global flags from the command hierarchy.
// This is useful for subcommands that need to access global flags when
// they weren't passed the flags struct directly.
func Parse(cmd *cobra.Command) (*Flags, error) {
	root := cmd
	for root.Parent() != nil {
		root = root.Parent()
	}

	pf := root.PersistentFlags()
	configFile, _ := pf.GetString("config")
	format, _ := pf.GetString("format")
	logLevel, _ := pf.GetString("log-level")
	quiet, _ := pf.GetBool("quiet")
	verbose, _ := pf.GetBool("verbose")
	noColor, _ := pf.GetBool("no-color")

	return &Flags{
		ConfigFile: configFile,
		Format:     format,
		LogLevel:   logLevel,
		Quiet:      quiet,
		Verbose:    verbose,
		NoColor:    noColor,
	}, nil
}
