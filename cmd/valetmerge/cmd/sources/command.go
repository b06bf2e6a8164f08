// Package sources implements the sources command.
package sources

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/valetmerge/internal/cmd/output"
	"github.com/agentstation/valetmerge/internal/sources/valet"
)

// AppContext defines what the sources command needs from the app.
type AppContext interface {
	Sources() []valet.Source
	OutputFormat() string
}

// NewCommand creates the sources command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "sources",
		GroupID: "core",
		Short:   "List the feeds merge will fetch",
		Example: `  valetmerge sources
  valetmerge sources -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := output.DetectFormat(app.OutputFormat())
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), app.Sources())
		},
	}
}
